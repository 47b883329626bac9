package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Template data. Name is the business name throughout; emails address the
// business, not a contact person.
type previewReadyData struct {
	Name       string
	PreviewURL string
}

type developmentStartedData struct {
	Name          string
	EstimatedDate string
}

type websiteReadyData struct {
	Name    string
	SiteURL string
}

type basicData struct {
	Name string
}
