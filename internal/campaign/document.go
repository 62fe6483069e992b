package campaign

// Document is the fully-materialized campaign recommendation. Once returned
// by a Generator it is immutable; the streaming layer treats it as an opaque
// JSON value.
type Document struct {
	Campaign Overview `json:"campaign"`
	Channel  Channel  `json:"channel"`
	Timing   Timing   `json:"timing"`
	Message  Message  `json:"message"`
	Audience Audience `json:"audience"`
	Budget   Budget   `json:"budget"`
}

type Overview struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	DataSources []string `json:"dataSources"`
	GeneratedAt string   `json:"generatedAt"`
	Confidence  float64  `json:"confidence"`
}

type Channel struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Reasoning string `json:"reasoning"`
}

type Timing struct {
	SendDate  string `json:"sendDate"`
	SendTime  string `json:"sendTime"`
	Timezone  string `json:"timezone"`
	Reasoning string `json:"reasoning"`
}

type Message struct {
	Subject string `json:"subject"`
	Preview string `json:"preview"`
	Body    string `json:"body"`
	CTA     string `json:"cta"`
}

type Audience struct {
	Segment       string   `json:"segment"`
	EstimatedSize int      `json:"estimatedSize"`
	Criteria      []string `json:"criteria"`
}

type Budget struct {
	Recommended float64            `json:"recommended"`
	Currency    string             `json:"currency"`
	Breakdown   map[string]float64 `json:"breakdown"`
}
