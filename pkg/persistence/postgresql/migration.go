package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create workflows table
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT true,
				trigger_kind VARCHAR(100) NOT NULL,
				trigger_data JSONB,
				conditions JSONB,
				actions JSONB NOT NULL DEFAULT '[]',
				created_by VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_trigger_kind ON workflows(trigger_kind);
			CREATE INDEX idx_workflows_is_active ON workflows(is_active);
			CREATE INDEX idx_workflows_created_at ON workflows(created_at);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
		`,
		2: `
			-- Create workflow_executions table
			CREATE TABLE workflow_executions (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id),
				trigger_data JSONB DEFAULT '{}',
				status VARCHAR(50) NOT NULL,
				action_results JSONB,
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				duration_ms BIGINT
			);

			CREATE INDEX idx_workflow_executions_workflow_id ON workflow_executions(workflow_id);
			CREATE INDEX idx_workflow_executions_status ON workflow_executions(status);
			CREATE INDEX idx_workflow_executions_started_at ON workflow_executions(started_at);
		`,
		3: `
			-- Create CRM entity tables. Records keep their flexible fields in a
			-- JSONB document so workflow field updates need no schema changes.
			CREATE TABLE entities (
				entity_type VARCHAR(50) NOT NULL,
				id VARCHAR(255) NOT NULL,
				fields JSONB NOT NULL DEFAULT '{}',
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (entity_type, id)
			);

			CREATE TABLE tasks (
				id UUID PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				assignee_id VARCHAR(255),
				entity_type VARCHAR(50),
				entity_id VARCHAR(255),
				due_at TIMESTAMP WITH TIME ZONE,
				status VARCHAR(50) NOT NULL DEFAULT 'open',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_tasks_assignee_id ON tasks(assignee_id);
			CREATE INDEX idx_tasks_entity ON tasks(entity_type, entity_id);
		`,
		4: `
			-- Create directory tables
			CREATE TABLE users (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL
			);

			CREATE TABLE teams (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				members JSONB NOT NULL DEFAULT '[]'
			);
		`,
	}
}
