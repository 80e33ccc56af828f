package domain

// Request asks Provider for blocks of a piece starting at StartBlock.
type Request struct {
	RequesterID string `bencode:"requester" json:"requester"`
	ProviderID  string `bencode:"provider" json:"provider"`
	PieceIndex  int    `bencode:"piece" json:"piece"`
	StartBlock  int    `bencode:"start" json:"start"`
}

// Upload grants Bandwidth of the uploader's capacity to a receiver for one round.
type Upload struct {
	UploaderID string  `json:"uploader"`
	ReceiverID string  `json:"receiver"`
	Bandwidth  float64 `json:"bandwidth"`
}

// Download is one history record: blocks the local agent received from FromID.
type Download struct {
	FromID string `bencode:"from" json:"from"`
	ToID   string `bencode:"to" json:"to"`
	Blocks int    `bencode:"blocks" json:"blocks"`
}

func TotalBandwidth(uploads []Upload) float64 {
	var sum float64
	for _, u := range uploads {
		sum += u.Bandwidth
	}
	return sum
}
