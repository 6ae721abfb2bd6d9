package types

// LogEvent is a single timestamped message delivered in a subscription batch
type LogEvent struct {
	ID        string `json:"id,omitempty"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
	Message   string `json:"message"`
}

// LogBatch is the decoded CloudWatch Logs subscription payload
type LogBatch struct {
	Owner               string     `json:"owner,omitempty"`
	LogGroup            string     `json:"logGroup"`
	LogStream           string     `json:"logStream"`
	MessageType         string     `json:"messageType,omitempty"`
	SubscriptionFilters []string   `json:"subscriptionFilters,omitempty"`
	LogEvents           []LogEvent `json:"logEvents"`
}

// SinkResult is returned to the invoker after a batch has been processed
type SinkResult struct {
	Appended int    `json:"appended"`
	Bucket   string `json:"bucket,omitempty"`
	Key      string `json:"key,omitempty"`
	Message  string `json:"message,omitempty"`
}
