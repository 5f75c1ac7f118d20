package models_test

import (
	"sync"

	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/models"
	"github.com/relabs-tech/jobly/core/pointers"
)

func (s *StoreSuite) registerUser(username string, isAdmin bool) *models.User {
	user, err := s.users.Register(s.ctx, models.UserNew{
		Username:  username,
		Password:  "password1",
		FirstName: "First",
		LastName:  "Last",
		Email:     username + "@example.com",
		IsAdmin:   isAdmin,
	})
	s.Require().NoError(err)
	return user
}

func (s *StoreSuite) TestUserRegisterAndAuthenticate() {
	user := s.registerUser("u1", false)
	s.Equal("u1", user.Username)
	s.False(user.IsAdmin)

	_, err := s.users.Register(s.ctx, models.UserNew{Username: "u1", Password: "password1", FirstName: "F", LastName: "L", Email: "x@example.com"})
	s.True(apperr.Is(err, apperr.KindBadRequest))

	authenticated, err := s.users.Authenticate(s.ctx, "u1", "password1")
	s.Require().NoError(err)
	s.Equal(*user, *authenticated)

	_, err = s.users.Authenticate(s.ctx, "u1", "wrong")
	s.True(apperr.Is(err, apperr.KindUnauthorized))
	_, err = s.users.Authenticate(s.ctx, "nope", "password1")
	s.True(apperr.Is(err, apperr.KindUnauthorized))
}

func (s *StoreSuite) TestUserUpdate() {
	s.registerUser("u1", false)

	updated, err := s.users.Update(s.ctx, "u1", models.UserUpdate{
		FirstName: pointers.To("Aliya"),
		Password:  pointers.To("newpassword"),
		IsAdmin:   pointers.To(true),
	})
	s.Require().NoError(err)
	s.Equal("Aliya", updated.FirstName)
	s.True(updated.IsAdmin)

	_, err = s.users.Authenticate(s.ctx, "u1", "newpassword")
	s.NoError(err)

	_, err = s.users.Update(s.ctx, "u1", models.UserUpdate{})
	s.True(apperr.Is(err, apperr.KindBadRequest))
	_, err = s.users.Update(s.ctx, "nope", models.UserUpdate{FirstName: pointers.To("x")})
	s.True(apperr.Is(err, apperr.KindNotFound))
}

func (s *StoreSuite) TestUserFindAllGetRemove() {
	s.registerUser("u2", false)
	s.registerUser("u1", true)

	users, err := s.users.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("u1", users[0].Username)

	detail, err := s.users.Get(s.ctx, "u2")
	s.Require().NoError(err)
	s.Empty(detail.Applications)
	s.Empty(detail.Technologies)

	s.Require().NoError(s.users.Remove(s.ctx, "u2"))
	_, err = s.users.Get(s.ctx, "u2")
	s.True(apperr.Is(err, apperr.KindNotFound))
	s.True(apperr.Is(s.users.Remove(s.ctx, "u2"), apperr.KindNotFound))
}

func (s *StoreSuite) TestUserApply() {
	s.registerUser("u1", false)
	s.createCompany("acme", "Acme Corp", 10)
	job, err := s.jobs.Create(s.ctx, models.JobNew{Title: "Engineer", CompanyHandle: "acme"})
	s.Require().NoError(err)

	s.Require().NoError(s.users.Apply(s.ctx, "u1", job.ID))
	s.True(apperr.Is(s.users.Apply(s.ctx, "u1", job.ID), apperr.KindBadRequest))
	s.True(apperr.Is(s.users.Apply(s.ctx, "nope", job.ID), apperr.KindNotFound))
	s.True(apperr.Is(s.users.Apply(s.ctx, "u1", 999999), apperr.KindNotFound))

	detail, err := s.users.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal([]int{job.ID}, detail.Applications)
}

func (s *StoreSuite) TestUserTechnologies() {
	s.registerUser("u1", false)
	tech, err := s.technologies.Create(s.ctx, models.TechnologyNew{Name: "postgres"})
	s.Require().NoError(err)

	s.Require().NoError(s.users.AddTechnology(s.ctx, "u1", tech.ID))

	err = s.users.AddTechnology(s.ctx, "u1", tech.ID)
	s.True(apperr.Is(err, apperr.KindBadRequest))
	s.Contains(err.Error(), "already associated")

	s.True(apperr.Is(s.users.AddTechnology(s.ctx, "nope", tech.ID), apperr.KindNotFound))
	s.True(apperr.Is(s.users.AddTechnology(s.ctx, "u1", 999999), apperr.KindNotFound))

	var n int
	s.Require().NoError(s.db.QueryRow(`SELECT count(*) FROM jobly_test.user_technologies;`).Scan(&n))
	s.Equal(1, n)

	s.Require().NoError(s.users.RemoveTechnology(s.ctx, "u1", tech.ID))
	s.True(apperr.Is(s.users.RemoveTechnology(s.ctx, "u1", tech.ID), apperr.KindNotFound))
}

func (s *StoreSuite) TestConcurrentAssociationInsertsOnce() {
	s.registerUser("u1", false)
	tech, err := s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.Require().NoError(err)

	const workers = 10
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.users.AddTechnology(s.ctx, "u1", tech.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.True(apperr.Is(err, apperr.KindBadRequest), "got %v", err)
	}
	s.Equal(1, succeeded)

	detail, err := s.users.Get(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal([]int{tech.ID}, detail.Technologies)
}
