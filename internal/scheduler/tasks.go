package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskCampaignLaunch = "campaigns.launch"

const TaskCampaignComplete = "campaigns.complete"

// CampaignTaskPayload identifies the campaign and the time the task was
// planned for. The worker compares RunAt with the stored campaign to drop
// tasks that were superseded by a reschedule.
type CampaignTaskPayload struct {
	CampaignID string    `json:"campaignId"`
	RunAt      time.Time `json:"runAt"`
}

func NewCampaignLaunchTask(payload CampaignTaskPayload) (*asynq.Task, error) {
	return newCampaignTask(TaskCampaignLaunch, payload)
}

func NewCampaignCompleteTask(payload CampaignTaskPayload) (*asynq.Task, error) {
	return newCampaignTask(TaskCampaignComplete, payload)
}

func newCampaignTask(typename string, payload CampaignTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, data), nil
}

func ParseCampaignTaskPayload(task *asynq.Task) (CampaignTaskPayload, error) {
	var payload CampaignTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CampaignTaskPayload{}, err
	}
	return payload, nil
}
