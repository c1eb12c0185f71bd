package util

type Envelope map[string]any

// Success builds the standard response body. Data is omitted when nil.
func Success(message string, data any) Envelope {
	e := Envelope{"success": true, "message": message}
	if data != nil {
		e["data"] = data
	}
	return e
}

func Failure(message string) Envelope {
	return Envelope{"success": false, "message": message}
}
