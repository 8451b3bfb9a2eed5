package domain

import (
	"fmt"

	order "github.com/fooddel/client-gateway/internal/order/domain"
)

// Scheduled deliveries book a half-hour slot between opening and the
// last slot of the day.
const (
	firstSlotHour = 10
	lastSlotHour  = 23
)

// TimeSlots lists every bookable delivery slot.
func TimeSlots() []order.TimeSlot {
	var slots []order.TimeSlot
	for hour := firstSlotHour; hour < lastSlotHour; hour++ {
		for _, minute := range []int{0, 30} {
			endHour, endMinute := hour, minute+30
			if endMinute == 60 {
				endHour, endMinute = hour+1, 0
			}
			slots = append(slots, order.TimeSlot{
				Start: fmt.Sprintf("%02d:%02d", hour, minute),
				End:   fmt.Sprintf("%02d:%02d", endHour, endMinute),
			})
		}
	}
	return slots
}

// ValidSlot reports whether the slot is one of the bookable ones.
func ValidSlot(s order.TimeSlot) bool {
	for _, slot := range TimeSlots() {
		if slot == s {
			return true
		}
	}
	return false
}
