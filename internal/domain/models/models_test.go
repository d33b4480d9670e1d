package models

import "testing"

func TestTransitionTable(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]BookingStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s,%s) = %v, want %v", from, to, got, want)
			}
		}
	}
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() || StatusPending.IsTerminal() {
		t.Fatalf("terminal states misreported")
	}
}

func TestParseBookingStatus(t *testing.T) {
	if st, ok := ParseBookingStatus(" Confirmed "); !ok || st != StatusConfirmed {
		t.Fatalf("got %q %v", st, ok)
	}
	if _, ok := ParseBookingStatus("archived"); ok {
		t.Fatalf("unknown status accepted")
	}
}

func TestBookingView(t *testing.T) {
	v := Booking{Status: StatusConfirmed}.View()
	if v.Progress != 65 || v.StatusLabel != "Confirmed" {
		t.Fatalf("unexpected view %+v", v)
	}
	if StatusCancelled.Progress() != 0 || StatusCompleted.StatusClass() != "success" {
		t.Fatalf("unexpected progress/class")
	}
}

func TestParseFacilityEnums(t *testing.T) {
	if ty, ok := ParseFacilityType("cabana"); !ok || ty != TypeCabana {
		t.Fatalf("got %q %v", ty, ok)
	}
	if _, ok := ParseFacilityType("Villa"); ok {
		t.Fatalf("unknown type accepted")
	}
	if st, ok := ParseFacilityStatus("MAINTENANCE"); !ok || st != FacilityMaintenance {
		t.Fatalf("got %q %v", st, ok)
	}
}

func TestUserAddress(t *testing.T) {
	u := User{Street: "Purok 2", Barangay: "Malinao", City: "Naujan", Province: "Oriental Mindoro"}
	if got := u.Address(); got != "Purok 2, Malinao, Naujan, Oriental Mindoro, Philippines" {
		t.Fatalf("Address = %q", got)
	}
}
