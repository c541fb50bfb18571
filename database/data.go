package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"time"
)

// RunDB defines one audit run.
type RunDB struct {
	gorm.Model
	StartedAt  time.Time      `gorm:"column:started_at" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at" json:"finished_at"`
	Attempts   int            `gorm:"column:attempts" json:"attempts"`
	Succeeded  int            `gorm:"column:succeeded" json:"succeeded"`
	Failed     int            `gorm:"column:failed" json:"failed"`
	Timeouts   int            `gorm:"column:timeouts" json:"timeouts"`
	Cancelled  bool           `gorm:"column:cancelled" json:"cancelled"`
	Settings   datatypes.JSON `gorm:"column:settings" json:"settings"`
	Successes  []SuccessDB    `gorm:"foreignKey:RunID" json:"-"`
}

// SuccessDB defines a working combination found during a run.
type SuccessDB struct {
	gorm.Model
	RunID    uint   `gorm:"column:run_id;index" json:"run_id"`
	Address  string `gorm:"column:address" json:"address"`
	Port     string `gorm:"column:port" json:"port"`
	Domain   string `gorm:"column:domain" json:"domain"`
	Username string `gorm:"column:username" json:"username"`
	Password string `gorm:"column:password" json:"password"`
	Record   string `gorm:"column:record" json:"record"`
}
