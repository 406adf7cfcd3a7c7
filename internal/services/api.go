package services

// API bundles the resource services bound to one browser session's tokens.
type API struct {
	Auth         *AuthService
	Jobs         *JobService
	Applications *ApplicationService
}

func NewAPI(c *Client) *API {
	return &API{
		Auth:         NewAuthService(c),
		Jobs:         NewJobService(c),
		Applications: NewApplicationService(c),
	}
}
