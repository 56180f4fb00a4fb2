package ethereal

type createAccountRequest struct {
	Requestor string `json:"requestor"`
	Version   string `json:"version"`
}

type ServerInfo struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Secure bool   `json:"secure"`
}

// Account is a disposable mailbox. Mail sent through it is captured and
// viewable on Web instead of being delivered.
type Account struct {
	Status string     `json:"status"`
	User   string     `json:"user"`
	Pass   string     `json:"pass"`
	SMTP   ServerInfo `json:"smtp"`
	IMAP   ServerInfo `json:"imap"`
	POP3   ServerInfo `json:"pop3"`
	Web    string     `json:"web"`
}
