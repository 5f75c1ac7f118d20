package models_test

import (
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/pointers"
)

func (s *StoreSuite) createCompany(handle, name string, numEmployees int) *models.Company {
	company, err := s.companies.Create(s.ctx, models.CompanyNew{
		Handle:       handle,
		Name:         name,
		Description:  "Desc " + name,
		NumEmployees: pointers.To(numEmployees),
	})
	s.Require().NoError(err)
	return company
}

func (s *StoreSuite) TestCompanyCreateAndGet() {
	created := s.createCompany("acme", "Acme Corp", 10)
	s.Equal("acme", created.Handle)
	s.Nil(created.LogoURL)

	detail, err := s.companies.Get(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(*created, detail.Company)
	s.Empty(detail.Jobs)

	_, err = s.companies.Create(s.ctx, models.CompanyNew{Handle: "acme", Name: "Other", Description: "x"})
	s.True(apperr.Is(err, apperr.KindBadRequest))
}

func (s *StoreSuite) TestCompanyDuplicateNameIsBadRequest() {
	s.createCompany("acme", "Acme Corp", 10)
	_, err := s.companies.Create(s.ctx, models.CompanyNew{Handle: "acme2", Name: "Acme Corp", Description: "x"})
	s.True(apperr.Is(err, apperr.KindBadRequest), "got %v", err)
}

func (s *StoreSuite) TestCompanyFindAll() {
	s.createCompany("c1", "Alpha", 1)
	s.createCompany("c2", "Beta", 20)
	s.createCompany("c3", "alphabet", 300)

	all, err := s.companies.FindAll(s.ctx, models.CompanyFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	filtered, err := s.companies.FindAll(s.ctx, models.CompanyFilter{Name: pointers.To("ALPHA")})
	s.Require().NoError(err)
	s.Len(filtered, 2)

	filtered, err = s.companies.FindAll(s.ctx, models.CompanyFilter{Name: pointers.To("alpha"), MinEmployees: pointers.To(2)})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal("c3", filtered[0].Handle)

	filtered, err = s.companies.FindAll(s.ctx, models.CompanyFilter{MinEmployees: pointers.To(2), MaxEmployees: pointers.To(100)})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal("c2", filtered[0].Handle)

	filtered, err = s.companies.FindAll(s.ctx, models.CompanyFilter{Name: pointers.To("%")})
	s.Require().NoError(err)
	s.Empty(filtered)

	_, err = s.companies.FindAll(s.ctx, models.CompanyFilter{MinEmployees: pointers.To(10), MaxEmployees: pointers.To(5)})
	s.True(apperr.Is(err, apperr.KindBadRequest))
}

func (s *StoreSuite) TestCompanyUpdate() {
	s.createCompany("acme", "Acme Corp", 10)

	updated, err := s.companies.Update(s.ctx, "acme", models.CompanyUpdate{
		Name:         pointers.To("Acme Inc"),
		NumEmployees: pointers.To(11),
		LogoURL:      pointers.To("http://acme.com/logo.png"),
	})
	s.Require().NoError(err)
	s.Equal("Acme Inc", updated.Name)
	s.Equal(11, *updated.NumEmployees)
	s.Equal("http://acme.com/logo.png", *updated.LogoURL)
	s.Equal("Desc Acme Corp", updated.Description)

	_, err = s.companies.Update(s.ctx, "acme", models.CompanyUpdate{})
	s.True(apperr.Is(err, apperr.KindBadRequest))

	_, err = s.companies.Update(s.ctx, "nope", models.CompanyUpdate{Name: pointers.To("x")})
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *StoreSuite) TestCompanySetLogo() {
	s.createCompany("acme", "Acme Corp", 10)
	company, err := s.companies.SetLogo(s.ctx, "acme", "http://cdn/acme.png")
	s.Require().NoError(err)
	s.Equal("http://cdn/acme.png", *company.LogoURL)

	_, err = s.companies.SetLogo(s.ctx, "nope", "http://cdn/nope.png")
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *StoreSuite) TestCompanyRemoveCascadesToJobs() {
	s.createCompany("acme", "Acme Corp", 10)
	job, err := s.jobs.Create(s.ctx, models.JobNew{Title: "Engineer", CompanyHandle: "acme"})
	s.Require().NoError(err)

	s.Require().NoError(s.companies.Remove(s.ctx, "acme"))

	_, err = s.companies.Get(s.ctx, "acme")
	s.True(apperr.Is(err, apperr.KindNotFound))
	_, err = s.jobs.Get(s.ctx, job.ID)
	s.True(apperr.Is(err, apperr.KindNotFound))

	err = s.companies.Remove(s.ctx, "acme")
	s.True(apperr.Is(err, apperr.KindNotFound))
}
