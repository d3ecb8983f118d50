package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type StepData []byte

// MarshalJSON implements json.Marshaler - returns raw JSON
func (n StepData) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n, nil
}

// UnmarshalJSON implements json.Unmarshaler - stores raw JSON
func (n *StepData) UnmarshalJSON(data []byte) error {
	if data == nil || bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}
	*n = bytes.Clone(data)
	return nil
}

type StepType string

const (
	StepTypeTableInput  StepType = "table_input"
	StepTypeTableOutput StepType = "table_output"
	StepTypeMap         StepType = "map"
	StepTypeLog         StepType = "log"
)

// StepMeta is a step template. Only transformations hold steps.
type StepMeta struct {
	ObjectID    ObjectID `json:"-"`
	Name        string   `json:"name"`
	Shared      bool     `json:"shared"`
	StepType    StepType `json:"stepType"`
	Description string   `json:"description"`
	Copies      int      `json:"copies"`
	Distributes bool     `json:"distributes"`
	Xpos        float32  `json:"xpos"`
	Ypos        float32  `json:"ypos"`
	Data        StepData `json:"data"`

	changed bool
}

func (slf *StepMeta) GetName() string         { return slf.Name }
func (slf *StepMeta) IsShared() bool          { return slf.Shared }
func (slf *StepMeta) SetShared(shared bool)   { slf.Shared = shared }
func (slf *StepMeta) GetObjectID() ObjectID   { return slf.ObjectID }
func (slf *StepMeta) SetObjectID(id ObjectID) { slf.ObjectID = id }
func (slf *StepMeta) Kind() SharedObjectKind  { return KindStep }
func (slf *StepMeta) HasChanged() bool        { return slf.changed }

func (slf *StepMeta) ReplaceMeta(src *StepMeta) {
	slf.Name = src.Name
	slf.Shared = src.Shared
	slf.StepType = src.StepType
	slf.Description = src.Description
	slf.Copies = src.Copies
	slf.Distributes = src.Distributes
	slf.Xpos = src.Xpos
	slf.Ypos = src.Ypos
	slf.Data = bytes.Clone(src.Data)
	slf.changed = true
}

// Clone returns an unsaved copy of the step.
func (slf *StepMeta) Clone() *StepMeta {
	clone := &StepMeta{}
	clone.ReplaceMeta(slf)
	clone.changed = false
	return clone
}

// SetData serializes and stores typed config data
func (slf *StepMeta) SetData(config any) error {
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal step data: %w", err)
	}
	slf.Data = data
	return nil
}

// GetData deserializes the step config into dest
func (slf *StepMeta) GetData(dest any) error {
	if slf.Data == nil {
		return fmt.Errorf("step %q has no data", slf.Name)
	}
	return json.Unmarshal(slf.Data, dest)
}
