package models

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FormatDate renders t as "Mes día, año", e.g. "Octubre 15, 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d, %d", monthNames[t.Month()-1], t.Day(), t.Year())
}
