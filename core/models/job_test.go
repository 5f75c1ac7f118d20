package models_test

import (
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/pointers"
)

func (s *StoreSuite) TestJobCreateAndGet() {
	s.createCompany("acme", "Acme Corp", 10)

	job, err := s.jobs.Create(s.ctx, models.JobNew{
		Title:         "Engineer",
		Salary:        pointers.To(100000),
		Equity:        pointers.To("0.05"),
		CompanyHandle: "acme",
	})
	s.Require().NoError(err)
	s.NotZero(job.ID)
	s.Equal("0.05", *job.Equity)

	detail, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(*job, detail.Job)
	s.Require().NotNil(detail.Company)
	s.Equal("Acme Corp", detail.Company.Name)
	s.Empty(detail.Technologies)

	company, err := s.companies.Get(s.ctx, "acme")
	s.Require().NoError(err)
	s.Require().Len(company.Jobs, 1)
	s.Equal(job.ID, company.Jobs[0].ID)

	_, err = s.jobs.Create(s.ctx, models.JobNew{Title: "Engineer", CompanyHandle: "nope"})
	s.True(apperr.Is(err, apperr.KindNotFound))

	_, err = s.jobs.Get(s.ctx, 999999)
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *StoreSuite) TestJobFindAll() {
	s.createCompany("acme", "Acme Corp", 10)
	for _, j := range []models.JobNew{
		{Title: "Backend Engineer", Salary: pointers.To(120000), Equity: pointers.To("0"), CompanyHandle: "acme"},
		{Title: "Frontend Engineer", Salary: pointers.To(90000), Equity: pointers.To("0.1"), CompanyHandle: "acme"},
		{Title: "Manager", CompanyHandle: "acme"},
	} {
		_, err := s.jobs.Create(s.ctx, j)
		s.Require().NoError(err)
	}

	all, err := s.jobs.FindAll(s.ctx, models.JobFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	filtered, err := s.jobs.FindAll(s.ctx, models.JobFilter{Title: pointers.To("engineer"), MinSalary: pointers.To(100000)})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal("Backend Engineer", filtered[0].Title)

	filtered, err = s.jobs.FindAll(s.ctx, models.JobFilter{HasEquity: pointers.To(true)})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal("Frontend Engineer", filtered[0].Title)

	filtered, err = s.jobs.FindAll(s.ctx, models.JobFilter{HasEquity: pointers.To(false)})
	s.Require().NoError(err)
	s.Len(filtered, 3)
}

func (s *StoreSuite) TestJobUpdateAndRemove() {
	s.createCompany("acme", "Acme Corp", 10)
	s.createCompany("wayne", "Wayne Enterprises", 1000)
	job, err := s.jobs.Create(s.ctx, models.JobNew{Title: "Engineer", CompanyHandle: "acme"})
	s.Require().NoError(err)

	updated, err := s.jobs.Update(s.ctx, job.ID, models.JobUpdate{Salary: pointers.To(5), CompanyHandle: pointers.To("wayne")})
	s.Require().NoError(err)
	s.Equal(5, *updated.Salary)
	s.Equal("wayne", updated.CompanyHandle)
	s.Equal("Engineer", updated.Title)

	_, err = s.jobs.Update(s.ctx, job.ID, models.JobUpdate{CompanyHandle: pointers.To("nope")})
	s.True(apperr.Is(err, apperr.KindNotFound), "got %v", err)

	_, err = s.jobs.Update(s.ctx, job.ID, models.JobUpdate{})
	s.True(apperr.Is(err, apperr.KindBadRequest))

	_, err = s.jobs.Update(s.ctx, 999999, models.JobUpdate{Title: pointers.To("x")})
	s.True(apperr.Is(err, apperr.KindNotFound))

	s.Require().NoError(s.jobs.Remove(s.ctx, job.ID))
	s.True(apperr.Is(s.jobs.Remove(s.ctx, job.ID), apperr.KindNotFound))
}

func (s *StoreSuite) TestJobTechnologies() {
	s.createCompany("acme", "Acme Corp", 10)
	job, err := s.jobs.Create(s.ctx, models.JobNew{Title: "Engineer", CompanyHandle: "acme"})
	s.Require().NoError(err)
	tech, err := s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.Require().NoError(err)

	s.Require().NoError(s.jobs.AddTechnology(s.ctx, job.ID, tech.ID))

	err = s.jobs.AddTechnology(s.ctx, job.ID, tech.ID)
	s.True(apperr.Is(err, apperr.KindBadRequest))

	s.True(apperr.Is(s.jobs.AddTechnology(s.ctx, 999999, tech.ID), apperr.KindNotFound))
	s.True(apperr.Is(s.jobs.AddTechnology(s.ctx, job.ID, 999999), apperr.KindNotFound))

	detail, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal([]int{tech.ID}, detail.Technologies)

	s.Require().NoError(s.jobs.RemoveTechnology(s.ctx, job.ID, tech.ID))
	s.True(apperr.Is(s.jobs.RemoveTechnology(s.ctx, job.ID, tech.ID), apperr.KindNotFound))
}
