package storage

import "database/sql"

// NullString maps an absent optional field to SQL NULL.
func NullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// StringPtr maps SQL NULL back to an absent optional field.
func StringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
