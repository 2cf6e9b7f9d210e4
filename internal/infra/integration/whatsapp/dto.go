package whatsapp

type SendTextInput struct {
	PhoneNumber string // E.164, e.g. "+4915112345678"
	Body        string
}

type SendTemplateInput struct {
	PhoneNumber  string
	TemplateName string   // e.g. "lead_followup_24h_v1"
	Parameters   []string // positional body parameters
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
