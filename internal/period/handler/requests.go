package handler

import (
	"time"

	"dossier/internal/command"
	"dossier/internal/period/models"
	"dossier/pkg/domain"
	dErrors "dossier/pkg/domain-errors"
	"dossier/pkg/result"
)

type periodDTO struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type validatePeriodRequest struct {
	Country  *string    `json:"country"`
	Pmd      *string    `json:"pmd"`
	Period   *periodDTO `json:"period"`
	Duration *int64     `json:"duration"`
}

type checkPeriodRequest struct {
	Cpid   *string    `json:"cpid"`
	Ocid   *string    `json:"ocid"`
	Date   *string    `json:"date"`
	Period *periodDTO `json:"period"`
}

type savePeriodRequest struct {
	Cpid   *string    `json:"cpid"`
	Ocid   *string    `json:"ocid"`
	Period *periodDTO `json:"period"`
}

type verifyRequest struct {
	Cpid *string `json:"cpid"`
	Ocid *string `json:"ocid"`
	Date *string `json:"date"`
}

type periodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type checkPeriodResponse struct {
	IsPreviousPeriodChanged bool           `json:"isPreviousPeriodChanged"`
	StoredPeriod            periodResponse `json:"storedPeriod"`
	NewPeriod               periodResponse `json:"newPeriod"`
}

type verifyResponse struct {
	IsExpired bool `json:"isExpired"`
}

func dateParser(attribute string) func(string) result.Result[time.Time, dErrors.Fail] {
	return func(raw string) result.Result[time.Time, dErrors.Fail] {
		return domain.ParseDate(attribute, raw)
	}
}

func parseCpid(raw string) result.Result[domain.Cpid, dErrors.Fail] { return domain.ParseCpid(raw) }

func (p *periodDTO) isEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil
}

func (p *periodDTO) toModel() result.Result[models.Period, dErrors.Fail] {
	if p == nil {
		return result.Failure[models.Period, dErrors.Fail](dErrors.MissingRequiredAttribute("period"))
	}
	if p.isEmpty() {
		return result.Failure[models.Period, dErrors.Fail](dErrors.EmptyObject("period"))
	}
	start, fail, ok := command.Required("period.startDate", p.StartDate, dateParser("period.startDate")).Unwrap()
	if !ok {
		return result.Failure[models.Period](fail)
	}
	end, fail, ok := command.Required("period.endDate", p.EndDate, dateParser("period.endDate")).Unwrap()
	if !ok {
		return result.Failure[models.Period](fail)
	}
	return result.Success[models.Period, dErrors.Fail](models.Period{StartDate: start, EndDate: end})
}

func (r validatePeriodRequest) toParams() result.Result[models.ValidateParams, dErrors.Fail] {
	country, fail, ok := command.Required("country", r.Country, func(raw string) result.Result[domain.Country, dErrors.Fail] {
		return domain.ParseCountry("country", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.ValidateParams](fail)
	}
	pmd, fail, ok := command.Required("pmd", r.Pmd, func(raw string) result.Result[domain.ProcurementMethod, dErrors.Fail] {
		return domain.ParseProcurementMethod("pmd", raw)
	}).Unwrap()
	if !ok {
		return result.Failure[models.ValidateParams](fail)
	}
	period, fail, ok := r.Period.toModel().Unwrap()
	if !ok {
		return result.Failure[models.ValidateParams](fail)
	}

	params := models.ValidateParams{Country: country, Pmd: pmd, Period: period}
	if r.Duration != nil {
		d, fail, ok := domain.ParseDurationSeconds("duration", *r.Duration).Unwrap()
		if !ok {
			return result.Failure[models.ValidateParams](fail)
		}
		params.Duration = &d
	}
	return result.Success[models.ValidateParams, dErrors.Fail](params)
}

func (r checkPeriodRequest) toParams() result.Result[models.CheckParams, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", r.Cpid, parseCpid).Unwrap()
	if !ok {
		return result.Failure[models.CheckParams](fail)
	}
	ocid, fail, ok := command.Required("ocid", r.Ocid, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[models.CheckParams](fail)
	}
	date, fail, ok := command.Required("date", r.Date, dateParser("date")).Unwrap()
	if !ok {
		return result.Failure[models.CheckParams](fail)
	}
	if r.Period == nil {
		return result.Failure[models.CheckParams, dErrors.Fail](dErrors.MissingRequiredAttribute("period"))
	}
	if r.Period.isEmpty() {
		return result.Failure[models.CheckParams, dErrors.Fail](dErrors.EmptyObject("period"))
	}
	end, fail, ok := command.Required("period.endDate", r.Period.EndDate, dateParser("period.endDate")).Unwrap()
	if !ok {
		return result.Failure[models.CheckParams](fail)
	}
	return result.Success[models.CheckParams, dErrors.Fail](models.CheckParams{
		Cpid: cpid, Ocid: ocid, Date: date, EndDate: end,
	})
}

func (r savePeriodRequest) toParams() result.Result[models.SaveParams, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", r.Cpid, parseCpid).Unwrap()
	if !ok {
		return result.Failure[models.SaveParams](fail)
	}
	ocid, fail, ok := command.Required("ocid", r.Ocid, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[models.SaveParams](fail)
	}
	period, fail, ok := r.Period.toModel().Unwrap()
	if !ok {
		return result.Failure[models.SaveParams](fail)
	}
	return result.Success[models.SaveParams, dErrors.Fail](models.SaveParams{Cpid: cpid, Ocid: ocid, Period: period})
}

func (r verifyRequest) toParams() result.Result[models.VerifyParams, dErrors.Fail] {
	cpid, fail, ok := command.Required("cpid", r.Cpid, parseCpid).Unwrap()
	if !ok {
		return result.Failure[models.VerifyParams](fail)
	}
	ocid, fail, ok := command.Required("ocid", r.Ocid, domain.ParseOcidOf(cpid)).Unwrap()
	if !ok {
		return result.Failure[models.VerifyParams](fail)
	}
	date, fail, ok := command.Optional(r.Date, dateParser("date")).Unwrap()
	if !ok {
		return result.Failure[models.VerifyParams](fail)
	}
	return result.Success[models.VerifyParams, dErrors.Fail](models.VerifyParams{Cpid: cpid, Ocid: ocid, Date: date})
}

func toPeriodResponse(p models.Period) periodResponse {
	return periodResponse{StartDate: domain.FormatDate(p.StartDate), EndDate: domain.FormatDate(p.EndDate)}
}
