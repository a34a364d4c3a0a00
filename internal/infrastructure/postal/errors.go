package postal

import "errors"

// ErrConfigMissingBaseURL indicates the adapter was built without a base URL
var ErrConfigMissingBaseURL = errors.New("postal: config missing base URL")
