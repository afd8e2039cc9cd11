package session

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-parking/internal/common"
	"github.com/noah-isme/backend-parking/internal/store"
)

const receiptWidth = 42

// Receipt renders a printable receipt for a closed session.
func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if sess.Open() {
		return "", common.ValidationError("session is still open, no receipt available")
	}
	vehicle, err := s.Repo.GetVehicle(ctx, s.DB, sess.VehicleID)
	if err != nil {
		return "", err
	}
	driver, err := s.Repo.GetDriver(ctx, s.DB, sess.DriverID)
	if err != nil {
		return "", err
	}
	return RenderReceipt(sess, driver, vehicle), nil
}

// RenderReceipt formats a closed session as a fixed-width text receipt.
func RenderReceipt(sess store.Session, driver store.Driver, vehicle store.Vehicle) string {
	var b strings.Builder

	writeRule := func(left, fill, right string) {
		b.WriteString(left)
		b.WriteString(strings.Repeat(fill, receiptWidth-2))
		b.WriteString(right)
		b.WriteByte('\n')
	}
	writeLine := func(text string) {
		// Truncate on runes, not bytes, so accented names are never cut
		// mid-character.
		if runes := []rune(text); len(runes) > receiptWidth-4 {
			text = string(runes[:receiptWidth-4])
		}
		fmt.Fprintf(&b, "| %-*s |\n", receiptWidth-4, text)
	}
	writeField := func(label, value string) {
		writeLine(fmt.Sprintf("%-14s %s", label+":", value))
	}

	writeRule("+", "=", "+")
	writeLine(centered("PARKING RECEIPT", receiptWidth-4))
	writeRule("+", "=", "+")
	writeField("Receipt", sess.ID.String()[:8])
	writeField("Driver", driver.Name)
	writeField("Plate", vehicle.Plate)
	writeField("Vehicle", vehicle.Type.String())
	writeRule("+", "-", "+")
	writeField("Entry", sess.EntryTime.Format("2006-01-02 15:04"))
	if sess.ExitTime != nil {
		writeField("Exit", sess.ExitTime.Format("2006-01-02 15:04"))
	}
	writeField("Parked", formatSpan(sess.Hours, sess.Minutes))
	writeField("After hours", formatSpan(sess.FineHours, sess.FineMinutes))
	writeField("Bank hours", fmt.Sprintf("%dh", sess.DiscountHours))
	writeRule("+", "-", "+")
	writeField("Hourly rate", sess.HourlyRate.StringFixed(2))
	writeField("Fine", sess.FineAmount.StringFixed(2))
	writeField("Discount", sess.DiscountAmount.StringFixed(2))
	writeField("TOTAL", sess.TotalAmount.StringFixed(2))
	writeRule("+", "=", "+")
	writeLine(centered("printed "+time.Now().Format("2006-01-02"), receiptWidth-4))
	writeRule("+", "=", "+")

	return b.String()
}

func formatSpan(hours, minutes int) string {
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

func centered(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text
}
