package model

// ReadingMessage is the payload published to the configured topic.
type ReadingMessage struct {
	Temperature int `json:"temperature"`
	Pressure    int `json:"pressure"`
	Lux         int `json:"lux"`
}

func NewReadingMessage(r Reading) ReadingMessage {
	return ReadingMessage{
		Temperature: r.Temperature,
		Pressure:    r.Pressure,
		Lux:         r.Lux,
	}
}
