package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/relay"
)

// errMalformed marks a body that does not match the expected shape.
var errMalformed = errors.New("malformed payload")

// chatPayload is one of the accepted POST /chat body shapes. Each variant
// normalizes into a relay.Question before reaching the service.
type chatPayload interface {
	question() relay.Question
}

// textPayload is a raw-text body: the whole body is the question.
type textPayload string

func (p textPayload) question() relay.Question {
	return relay.Question{Text: string(p)}
}

// jsonPayload is {"question": string, "model"?: string}.
type jsonPayload struct {
	Question *string `json:"question"`
	Model    *string `json:"model"`
}

func (p jsonPayload) question() relay.Question {
	q := relay.Question{Text: *p.Question}
	if p.Model != nil {
		q.Model = *p.Model
	}
	return q
}

// decodePayload reads the request body according to mode.
func decodePayload(r *http.Request, mode config.RequestMode) (chatPayload, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	switch mode {
	case config.RequestModeText:
		return textPayload(body), nil
	case config.RequestModeAuto:
		if !isJSONContent(r.Header.Get("Content-Type")) {
			return textPayload(body), nil
		}
	}
	return decodeJSONPayload(body)
}

func decodeJSONPayload(body []byte) (chatPayload, error) {
	var p jsonPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Join(errMalformed, err)
	}
	if dec.More() {
		return nil, errors.Join(errMalformed, errors.New("trailing data after JSON object"))
	}
	if p.Question == nil {
		return nil, errors.Join(errMalformed, errors.New(`missing "question" field`))
	}
	return p, nil
}

func isJSONContent(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || (len(mt) > 5 && mt[len(mt)-5:] == "+json"))
}
