package models_test

import (
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/models"
)

func (s *StoreSuite) TestTechnologies() {
	goTech, err := s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.Require().NoError(err)
	_, err = s.technologies.Create(s.ctx, models.TechnologyNew{Name: "css"})
	s.Require().NoError(err)

	_, err = s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.True(apperr.Is(err, apperr.KindBadRequest))

	all, err := s.technologies.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("css", all[0].Name)

	got, err := s.technologies.Get(s.ctx, goTech.ID)
	s.Require().NoError(err)
	s.Equal(*goTech, *got)

	s.Require().NoError(s.technologies.Remove(s.ctx, goTech.ID))
	_, err = s.technologies.Get(s.ctx, goTech.ID)
	s.True(apperr.Is(err, apperr.KindNotFound))
	s.True(apperr.Is(s.technologies.Remove(s.ctx, goTech.ID), apperr.KindNotFound))
}
