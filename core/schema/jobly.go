package schema

import (
	"embed"
	"io/fs"
)

//go:embed jobly
var joblyFS embed.FS

// BaseURL is the common prefix of all jobly schema IDs
const BaseURL = "http://jobly.relabs.tech/schemas/"

// the jobly request schemas
const (
	CompanyNew    = BaseURL + "companyNew.json"
	CompanyUpdate = BaseURL + "companyUpdate.json"
	JobNew        = BaseURL + "jobNew.json"
	JobUpdate     = BaseURL + "jobUpdate.json"
	UserNew       = BaseURL + "userNew.json"
	UserRegister  = BaseURL + "userRegister.json"
	UserUpdate    = BaseURL + "userUpdate.json"
	UserAuth      = BaseURL + "userAuth.json"
	TechnologyNew = BaseURL + "technologyNew.json"
)

// NewJoblyValidator returns a validator for all jobly request schemas
func NewJoblyValidator() (*Validator, error) {
	sub, err := fs.Sub(joblyFS, "jobly")
	if err != nil {
		return nil, err
	}
	return NewValidatorFromFS(sub)
}
