package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/services"
	"resort/internal/utils"
)

type facilityPayload struct {
	Name        *Stringish `json:"name"`
	Type        *Stringish `json:"type"`
	Capacity    *Stringish `json:"capacity"`
	Price       *Stringish `json:"price"`
	Status      *Stringish `json:"status"`
	Description *Stringish `json:"description"`
	ImageURL    *Stringish `json:"imageUrl"`
	ImageData   *Stringish `json:"imageData"`
}

// facilityInput reads a JSON body or a multipart form with an optional image.
func (h *Handler) facilityInput(c *gin.Context) (services.FacilityInput, error) {
	var (
		p  facilityPayload
		in services.FacilityInput
	)
	if isMultipart(c) {
		field := func(name string) *Stringish {
			if v, ok := c.GetPostForm(name); ok {
				s := Stringish(v)
				return &s
			}
			return nil
		}
		p = facilityPayload{
			Name:        field("name"),
			Type:        field("type"),
			Capacity:    field("capacity"),
			Price:       field("price"),
			Status:      field("status"),
			Description: field("description"),
			ImageURL:    field("imageUrl"),
		}
		if fh, ferr := c.FormFile("image"); ferr == nil {
			url, err := h.Storage.SaveMultipart("facility", fh)
			if err != nil {
				return in, err
			}
			s := Stringish(url)
			p.ImageURL = &s
		}
	} else if err := c.ShouldBindJSON(&p); err != nil {
		return in, domain.ValidationError{Msg: "invalid JSON payload", Err: err}
	} else if p.ImageData != nil && p.ImageData.String() != "" {
		url, err := h.Storage.SaveDataURL("facility", p.ImageData.String())
		if err != nil {
			return in, err
		}
		s := Stringish(url)
		p.ImageURL = &s
	}

	str := func(v *Stringish) *string {
		if v == nil {
			return nil
		}
		s := string(*v)
		return &s
	}
	in.Name = str(p.Name)
	in.Type = str(p.Type)
	in.Status = str(p.Status)
	in.Description = str(p.Description)
	in.ImageURL = str(p.ImageURL)
	if p.Capacity != nil {
		n, perr := parseInt("capacity", p.Capacity.String())
		if perr != nil {
			return in, perr
		}
		in.Capacity = &n
	}
	if p.Price != nil {
		f, perr := utils.ParseMoney(strings.TrimSpace(p.Price.String()))
		if perr != nil {
			return in, domain.ValidationError{Field: "price", Msg: "must be a number", Err: perr}
		}
		in.Price = &f
	}
	return in, nil
}

func (h *Handler) ListFacilities(c *gin.Context) {
	list, err := h.facilityService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetFacility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	f, err := h.facilityService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) CreateFacility(c *gin.Context) {
	in, err := h.facilityInput(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	f, err := h.facilityService(c).Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, f)
}

func (h *Handler) UpdateFacility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	in, err := h.facilityInput(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	f, err := h.facilityService(c).Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.facilityService(c).Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "facility deleted"})
}
