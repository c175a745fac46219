package model

import (
	"strconv"
	"time"
)

type Book struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement" db:"id"`
	Title     string    `json:"title" gorm:"not null" db:"title"`
	Author    string    `json:"author" gorm:"not null" db:"author"`
	Genre     string    `json:"genre" gorm:"not null" db:"genre"`
	Year      *int      `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// YearString returns the year as entered on forms, or "" when unset.
func (b Book) YearString() string {
	if b.Year == nil {
		return ""
	}
	return strconv.Itoa(*b.Year)
}

// Input is the user supplied field set for a book, kept as raw strings so a
// rejected submission can be shown back exactly as typed.
type Input struct {
	Title  string `form:"title" json:"title"`
	Author string `form:"author" json:"author"`
	Genre  string `form:"genre" json:"genre"`
	Year   string `form:"year" json:"year"`
}

func InputFromBook(b Book) Input {
	return Input{
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Year:   b.YearString(),
	}
}

// Apply overwrites every field of b with the input. Call Validate first.
func (in Input) Apply(b *Book) {
	b.Title = in.Title
	b.Author = in.Author
	b.Genre = in.Genre
	b.Year = nil
	if y, err := parseYear(in.yearText()); err == nil {
		b.Year = &y
	}
}
