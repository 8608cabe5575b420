package controller

// NamedRef is a summary reference to a related object.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Project is a project record as both AWX and AAP expose it.
type Project struct {
	ID                    int    `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	Organization          int    `json:"organization"`
	SCMType               string `json:"scm_type"`
	SCMURL                string `json:"scm_url"`
	SCMBranch             string `json:"scm_branch"`
	SCMClean              bool   `json:"scm_clean"`
	SCMTrackSubmodules    bool   `json:"scm_track_submodules"`
	SCMDeleteOnUpdate     bool   `json:"scm_delete_on_update"`
	SCMUpdateOnLaunch     bool   `json:"scm_update_on_launch"`
	SCMUpdateCacheTimeout int    `json:"scm_update_cache_timeout"`
	Timeout               int    `json:"timeout"`
	AllowOverride         bool   `json:"allow_override"`
}

// JobTemplateSummary carries the related-object names a job template
// record embeds; reference resolution works from these names, never
// from source-side IDs (IDs differ across installs).
type JobTemplateSummary struct {
	Project   *NamedRef `json:"project,omitempty"`
	Inventory *NamedRef `json:"inventory,omitempty"`
}

// JobTemplate is a job template record.
type JobTemplate struct {
	ID                             int                `json:"id"`
	Name                           string             `json:"name"`
	Description                    string             `json:"description"`
	Organization                   int                `json:"organization"`
	JobType                        string             `json:"job_type"`
	Playbook                       string             `json:"playbook"`
	Forks                          int                `json:"forks"`
	Verbosity                      int                `json:"verbosity"`
	BecomeEnabled                  bool               `json:"become_enabled"`
	Limit                          string             `json:"limit"`
	Timeout                        int                `json:"timeout"`
	AllowSimultaneous              bool               `json:"allow_simultaneous"`
	UseFactCache                   bool               `json:"use_fact_cache"`
	AskInventoryOnLaunch           bool               `json:"ask_inventory_on_launch"`
	AskVariablesOnLaunch           bool               `json:"ask_variables_on_launch"`
	AskLimitOnLaunch               bool               `json:"ask_limit_on_launch"`
	AskSCMBranchOnLaunch           bool               `json:"ask_scm_branch_on_launch"`
	AskExecutionEnvironmentOnLaunch bool              `json:"ask_execution_environment_on_launch"`
	AskCredentialOnLaunch          bool               `json:"ask_credential_on_launch"`
	SurveyEnabled                  bool               `json:"survey_enabled"`
	Survey                         map[string]any     `json:"survey,omitempty"`
	ExtraVars                      string             `json:"extra_vars"`
	SummaryFields                  JobTemplateSummary `json:"summary_fields"`
}

// Schedule is a schedule record owned by a job template.
type Schedule struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	RRule              string         `json:"rrule"`
	Enabled            bool           `json:"enabled"`
	ExtraData          map[string]any `json:"extra_data,omitempty"`
	UnifiedJobTemplate int            `json:"unified_job_template"`
}

// CredentialSummary carries the credential type name used for robust
// cross-install matching.
type CredentialSummary struct {
	CredentialType *NamedRef `json:"credential_type,omitempty"`
}

// Credential is a credential reference attached to a job template.
type Credential struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	SummaryFields CredentialSummary `json:"summary_fields"`
}

// Inventory is an inventory record, listed only to resolve references.
type Inventory struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Organization int    `json:"organization"`
}

// ExecutionEnvironment is an execution environment record on the
// target. Organization is nil for globally scoped environments.
type ExecutionEnvironment struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Organization *int   `json:"organization"`
}
