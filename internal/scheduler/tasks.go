// Package scheduler drives the matching orchestrator: deferred single-demand
// scans through an asynq queue and a periodic rescan of every open demand.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDemandMatch = "demands.match"

// DemandMatchPayload identifies the demand a deferred scan should run for.
type DemandMatchPayload struct {
	DemandID string `json:"demandId"`
}

// NewDemandMatchTask builds the asynq task for a deferred match run.
func NewDemandMatchTask(payload DemandMatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDemandMatch, data), nil
}

// ParseDemandMatchPayload decodes a demand match task payload.
func ParseDemandMatchPayload(task *asynq.Task) (DemandMatchPayload, error) {
	var payload DemandMatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DemandMatchPayload{}, err
	}
	return payload, nil
}
