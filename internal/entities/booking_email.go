package entities

// BookingEmailData feeds the HTML e-mail templates.
type BookingEmailData struct {
	CustomerName       string
	BookingCode        string
	ServiceName        string
	StaffName          string
	StartTimeFormatted string
	EndTimeFormatted   string
	Price              string
	Status             string
	Heading            string
	CurrentYear        int
}
