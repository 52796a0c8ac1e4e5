package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
)

// NewExecutionsClient creates and returns a new Workflows executions client.
func NewExecutionsClient(ctx context.Context) (*executions.Client, error) {
	client, err := executions.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow executions client: %w", err)
	}

	return client, nil
}

// WorkflowTrigger starts executions of one named workflow. The watcher hands
// off to it after publishing changed snapshots so downstream consumers can
// react without polling the bucket.
type WorkflowTrigger struct {
	client   *executions.Client
	project  string
	location string
	workflow string
}

func NewWorkflowTrigger(client *executions.Client, project, location, workflow string) *WorkflowTrigger {
	return &WorkflowTrigger{
		client:   client,
		project:  project,
		location: location,
		workflow: workflow,
	}
}

// Trigger starts a single execution carrying payload as its JSON argument.
func (t *WorkflowTrigger) Trigger(ctx context.Context, payload any) error {
	argument, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow payload: %w", err)
	}

	req := &executionspb.CreateExecutionRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s/workflows/%s", t.project, t.location, t.workflow),
		Execution: &executionspb.Execution{
			Argument: string(argument),
		},
	}
	if _, err := t.client.CreateExecution(ctx, req); err != nil {
		return fmt.Errorf("failed to trigger workflow execution: %w", err)
	}
	return nil
}
