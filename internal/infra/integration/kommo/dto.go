package kommo

type CreateLeadInput struct {
	Name       string // lead title shown in the pipeline
	FirstName  string
	Phone      string // E.164
	Tags       []string
	ExternalID string // conversation id, stored in the lead name suffix
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
