package model

import "time"

type ContactRequest struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	EmailAddress string    `json:"email_address"`
	InquiryType  string    `json:"inquiry_type"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
