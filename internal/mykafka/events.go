package mykafka

import "time"

type UserRegistered struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

type CarChanged struct {
	Type  string    `json:"type"`
	CarID uint      `json:"car_id"`
	At    time.Time `json:"at"`
}

type CartLineEvent struct {
	CarID uint    `json:"car_id"`
	Days  int     `json:"days"`
	Rate  float64 `json:"rental_rate"`
}

type CartCheckedOut struct {
	Type   string          `json:"type"`
	UserID uint            `json:"user_id"`
	Lines  []CartLineEvent `json:"lines"`
	At     time.Time       `json:"at"`
}
