package view

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/irsalhamdi/course-shop/validate"
)

func Funcs() template.FuncMap {
	return template.FuncMap{
		"ifeq":     ifeq,
		"price":    price,
		"date":     date,
		"errorFor": errorFor,
		"value":    value,
		"add":      func(a, b int) int { return a + b },
	}
}

// ifeq compares values of possibly different types by their text.
func ifeq(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func date(t time.Time) string {
	return t.Local().Format("02.01.2006 15:04")
}

func errorFor(fe validate.FieldErrors, field string) string {
	return fe.First(field)
}

func value(form map[string]string, field string) string {
	return form[field]
}
