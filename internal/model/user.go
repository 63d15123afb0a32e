package model

import "time"

type User struct {
	ID           uint      `gorm:"column:iduser;primaryKey" json:"iduser"`
	Nombre       string    `gorm:"size:100;not null" json:"nombre"`
	Apellido     string    `gorm:"size:100;not null" json:"apellido"`
	Username     string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password;size:200;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "users" }
