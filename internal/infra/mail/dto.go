package mail

type HandoverEmailData struct {
	FirstName      string
	Phone          string
	ContactID      string
	ConversationID string
	State          string
	LastMessage    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
