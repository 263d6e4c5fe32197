package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"         json:"id"`
	Username     string `gorm:"not null"                         json:"username"`
	Email        string `gorm:"uniqueIndex;not null"             json:"email"`
	PasswordHash string `gorm:"column:password;not null"         json:"-"`
	Role         string `gorm:"not null;default:user"            json:"role"`
}

type Car struct {
	ID             uint       `gorm:"column:carId;primaryKey;autoIncrement" json:"carId"`
	CarModel       string     `gorm:"column:car_model;not null"             json:"car_model"`
	CarType        string     `gorm:"column:car_type"                       json:"car_type"`
	RentalRate     float64    `gorm:"column:rental_rate"                    json:"rental_rate"`
	RentalTerm     string     `gorm:"column:rental_term"                    json:"rental_term"`
	Availability   bool       `gorm:"column:availability"                   json:"availability"`
	AvailableFrom  *time.Time `gorm:"column:available_from;type:date"       json:"available_from,omitempty"`
	AvailableTo    *time.Time `gorm:"column:available_to;type:date"         json:"available_to,omitempty"`
	PickupLocation string     `gorm:"column:pickup_location"                json:"pickup_location"`
	Image          string     `gorm:"column:image"                          json:"image"`
}

func (Car) TableName() string {
	return "cars"
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username  string    `gorm:"not null"                   json:"username"`
	Message   string    `gorm:"type:text;not null"         json:"message"`
	CreatedAt time.Time `gorm:"index"                      json:"created_at"`
}
