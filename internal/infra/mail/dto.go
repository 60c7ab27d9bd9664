package mail

type NewLeadEmailData struct {
	DoctorName string
	LeadName   string
	LeadPhone  string
	LeadEmail  string
	Source     string
	Indication string
	LeadsURL   string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BaseURL  string

	dialer dialer
}
