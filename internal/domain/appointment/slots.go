package appointment

import "time"

// SlotDateLayout is the wire format for slot dates.
const SlotDateLayout = "2006-01-02"

// SlotTimes is the fixed set of half-hour labels a doctor can be booked
// into, 10:00 AM through 08:30 PM. Labels are stored verbatim as ledger
// keys, so the exact spelling matters.
var SlotTimes = []string{
	"10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM",
	"01:00 PM", "01:30 PM",
	"02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM",
	"05:00 PM", "05:30 PM",
	"06:00 PM", "06:30 PM",
	"07:00 PM", "07:30 PM",
	"08:00 PM", "08:30 PM",
}

var slotTimeSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(SlotTimes))
	for _, t := range SlotTimes {
		s[t] = struct{}{}
	}
	return s
}()

func IsValidSlotTime(label string) bool {
	_, ok := slotTimeSet[label]
	return ok
}

func IsValidSlotDate(date string) bool {
	_, err := time.Parse(SlotDateLayout, date)
	return err == nil
}
