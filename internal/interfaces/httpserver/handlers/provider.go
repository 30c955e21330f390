package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
)

// Provider wires HTTP handlers.
type Provider struct {
	Testimonial *TestimonialHandler
}

func NewProvider(cfg *config.Config, service domain.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Testimonial: NewTestimonialHandler(cfg, service, log),
	}
}
