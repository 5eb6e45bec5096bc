package models

import "time"

type Room struct {
	ID         int64     `yaml:"id" json:"id"`
	RoomNumber string    `yaml:"room_number" json:"room_number"`
	RoomType   string    `yaml:"room_type" json:"room_type"` // AC, Non-AC
	Status     string    `yaml:"status" json:"status"`       // Available, Occupied, Maintenance
	Price      float64   `yaml:"price" json:"price"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at" json:"updated_at"`
}
