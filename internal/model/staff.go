package model

import "time"

// Staff сотрудник, публикующий окна доступности. Управление сотрудниками вне этого сервиса.
type Staff struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}
