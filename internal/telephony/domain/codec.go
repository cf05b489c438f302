package domain

import (
	"encoding/json"
	"fmt"
)

type wireInvocation struct {
	SchemaVersion       string `json:"SchemaVersion"`
	Sequence            int    `json:"Sequence"`
	InvocationEventType string `json:"InvocationEventType"`
	CallDetails         struct {
		TransactionID         string            `json:"TransactionId"`
		TransactionAttributes map[string]string `json:"TransactionAttributes"`
		Participants          []struct {
			CallID         string `json:"CallId"`
			ParticipantTag string `json:"ParticipantTag"`
			To             string `json:"To"`
			From           string `json:"From"`
			Status         string `json:"Status"`
		} `json:"Participants"`
	} `json:"CallDetails"`
	ActionData *struct {
		Type           string `json:"Type"`
		ReceivedDigits string `json:"ReceivedDigits"`
		ErrorType      string `json:"ErrorType"`
		ErrorMessage   string `json:"ErrorMessage"`
	} `json:"ActionData"`
}

// DecodeInvocation parses a gateway event.
func DecodeInvocation(data []byte) (Invocation, error) {
	var w wireInvocation
	if err := json.Unmarshal(data, &w); err != nil {
		return Invocation{}, fmt.Errorf("decode invocation: %w", err)
	}

	inv := Invocation{
		Kind:          ParseEventKind(w.InvocationEventType),
		TransactionID: w.CallDetails.TransactionID,
		Attributes:    w.CallDetails.TransactionAttributes,
	}
	for _, p := range w.CallDetails.Participants {
		inv.Legs = append(inv.Legs, CallLeg{
			CallID:         p.CallID,
			ParticipantTag: p.ParticipantTag,
			From:           p.From,
			To:             p.To,
			Status:         p.Status,
		})
	}
	if w.ActionData != nil {
		inv.Action = &ActionResult{
			Type:           ActionType(w.ActionData.Type),
			ReceivedDigits: w.ActionData.ReceivedDigits,
			ErrorType:      w.ActionData.ErrorType,
			ErrorMessage:   w.ActionData.ErrorMessage,
		}
	}
	return inv, nil
}

type wireAction struct {
	Type       ActionType `json:"Type"`
	Parameters any        `json:"Parameters"`
}

type wireResponse struct {
	SchemaVersion         string            `json:"SchemaVersion"`
	Actions               []wireAction      `json:"Actions"`
	TransactionAttributes map[string]string `json:"TransactionAttributes,omitempty"`
}

// EncodeResponse renders a response in the gateway's envelope.
func EncodeResponse(resp Response) ([]byte, error) {
	w := wireResponse{
		SchemaVersion:         SchemaVersion,
		Actions:               make([]wireAction, 0, len(resp.Actions)),
		TransactionAttributes: resp.Attributes,
	}
	for _, action := range resp.Actions {
		switch a := action.(type) {
		case JoinSession, PlayAudio, PlayAudioAndGetDigits, Hangup:
			w.Actions = append(w.Actions, wireAction{Type: a.Type(), Parameters: a})
		default:
			return nil, fmt.Errorf("unsupported action %T", action)
		}
	}
	return json.Marshal(w)
}
