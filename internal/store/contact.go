package store

import (
	"database/sql"
	"fmt"

	"github.com/innovastaff/staffsite/internal/model"
)

type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactCols = `id, full_name, email_address, inquiry_type, message, created_at`

func scanContactRequest(scanner interface{ Scan(...any) error }) (*model.ContactRequest, error) {
	var cr model.ContactRequest
	err := scanner.Scan(&cr.ID, &cr.FullName, &cr.EmailAddress, &cr.InquiryType, &cr.Message, &cr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (s *ContactStore) Create(fullName, emailAddress, inquiryType, message string) (*model.ContactRequest, error) {
	result, err := s.db.Exec(
		`INSERT INTO contact_requests (full_name, email_address, inquiry_type, message) VALUES (?, ?, ?, ?)`,
		fullName, emailAddress, inquiryType, message,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+contactCols+` FROM contact_requests WHERE id = ?`, id)
	cr, err := scanContactRequest(row)
	if err != nil {
		return nil, fmt.Errorf("get contact request: %w", err)
	}
	return cr, nil
}

func (s *ContactStore) List() ([]model.ContactRequest, error) {
	rows, err := s.db.Query(`SELECT ` + contactCols + ` FROM contact_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	defer rows.Close()

	var requests []model.ContactRequest
	for rows.Next() {
		cr, err := scanContactRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact request: %w", err)
		}
		requests = append(requests, *cr)
	}
	return requests, rows.Err()
}
