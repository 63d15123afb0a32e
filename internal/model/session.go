package model

import "time"

// DateLayout is the only accepted wire format for Session.Fecha.
const DateLayout = "2006-01-02"

// Session is one logged game session, stored in the "dashboard" table.
type Session struct {
	ID             uint      `gorm:"column:idsesion;primaryKey" json:"idsesion"`
	UserID         uint      `gorm:"column:iduser;not null;index" json:"iduser"`
	User           *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Cronica        *string   `gorm:"type:text" json:"cronica"`
	Juego          *string   `gorm:"type:text" json:"juego"`
	NumeroDeSesion *int      `gorm:"column:numero_de_sesion" json:"numero_de_sesion"`
	Fecha          time.Time `gorm:"type:date;not null;index" json:"fecha"`
	Resumen        *string   `gorm:"type:text" json:"resumen"`
}

func (Session) TableName() string { return "dashboard" }

// Today returns now truncated to a UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
