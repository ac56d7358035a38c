package course

import (
	"strconv"
	"strings"
	"time"
)

type Course struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Price     float64   `json:"price" bson:"price"`
	ImageURL  string    `json:"img" bson:"img"`
	UserID    string    `json:"userId" bson:"userId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CourseNew is the add and edit form.
type CourseNew struct {
	Title    string `form:"title" validate:"min=3"`
	Price    string `form:"price" validate:"required,price"`
	ImageURL string `form:"img" validate:"required,url"`
}

// Values is the form as it is re-rendered next to its errors.
func (cn CourseNew) Values() map[string]string {
	return map[string]string{
		"title": cn.Title,
		"price": cn.Price,
		"img":   cn.ImageURL,
	}
}

// PriceValue is only meaningful once the form passed validation.
func (cn CourseNew) PriceValue() float64 {
	p, _ := strconv.ParseFloat(strings.TrimSpace(cn.Price), 64)
	return p
}

func formValues(c Course) map[string]string {
	return map[string]string{
		"title": c.Title,
		"price": strconv.FormatFloat(c.Price, 'f', -1, 64),
		"img":   c.ImageURL,
	}
}
