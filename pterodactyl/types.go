package pterodactyl

// Request/response shapes for the panel Application API. The panel
// wraps every object in {"object": ..., "attributes": {...}} and every
// collection in {"data": [...]}; the envelope structs below unwrap
// that so callers only see the attributes.

type PanelUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CreateUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type EggVariable struct {
	Name         string `json:"name"`
	EnvVariable  string `json:"env_variable"`
	DefaultValue string `json:"default_value"`
	Rules        string `json:"rules"`
}

type Egg struct {
	ID          int
	Name        string
	DockerImage string
	Startup     string
	Variables   []EggVariable
}

type EggSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DockerImage string `json:"docker_image"`
}

type Nest struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Eggs []EggSummary `json:"eggs"`
}

type Limits struct {
	Memory int `json:"memory"`
	Swap   int `json:"swap"`
	Disk   int `json:"disk"`
	IO     int `json:"io"`
	CPU    int `json:"cpu"`
}

type FeatureLimits struct {
	Databases   int `json:"databases"`
	Backups     int `json:"backups"`
	Allocations int `json:"allocations"`
}

type Deploy struct {
	Locations   []int    `json:"locations"`
	DedicatedIP bool     `json:"dedicated_ip"`
	PortRange   []string `json:"port_range"`
}

type CreateServerRequest struct {
	Name          string            `json:"name"`
	User          int               `json:"user"`
	Nest          int               `json:"nest"`
	Egg           int               `json:"egg"`
	DockerImage   string            `json:"docker_image"`
	Startup       string            `json:"startup"`
	Environment   map[string]string `json:"environment"`
	Limits        Limits            `json:"limits"`
	FeatureLimits FeatureLimits     `json:"feature_limits"`
	Deploy        Deploy            `json:"deploy"`
}

type Server struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type StartupRequest struct {
	Egg         int               `json:"egg"`
	Image       string            `json:"image"`
	Startup     string            `json:"startup"`
	Environment map[string]string `json:"environment"`
	SkipScripts bool              `json:"skip_scripts"`
}

// --- wire envelopes ---

type userEnvelope struct {
	Attributes PanelUser `json:"attributes"`
}

type userListResponse struct {
	Data []userEnvelope `json:"data"`
}

type eggVariableEnvelope struct {
	Attributes EggVariable `json:"attributes"`
}

type eggAttributes struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	DockerImage   string `json:"docker_image"`
	Startup       string `json:"startup"`
	Relationships struct {
		Variables struct {
			Data []eggVariableEnvelope `json:"data"`
		} `json:"variables"`
	} `json:"relationships"`
}

type eggEnvelope struct {
	Attributes eggAttributes `json:"attributes"`
}

type serverEnvelope struct {
	Attributes Server `json:"attributes"`
}

type serverListResponse struct {
	Data []serverEnvelope `json:"data"`
}

type eggSummaryEnvelope struct {
	Attributes EggSummary `json:"attributes"`
}

type nestAttributes struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Relationships struct {
		Eggs struct {
			Data []eggSummaryEnvelope `json:"data"`
		} `json:"eggs"`
	} `json:"relationships"`
}

type nestEnvelope struct {
	Attributes nestAttributes `json:"attributes"`
}

type nestListResponse struct {
	Data []nestEnvelope `json:"data"`
}
