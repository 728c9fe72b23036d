package mapper

import (
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/model"
)

type PersonaMapper struct{}

func NewPersonaMapper() *PersonaMapper {
	return &PersonaMapper{}
}

func (m *PersonaMapper) ToEntity(p *model.Persona) *entity.Persona {
	if p == nil {
		return nil
	}
	return &entity.Persona{
		ConversationId: p.ConversationId,
		Persona:        p.Persona,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *PersonaMapper) ToModel(p *entity.Persona) *model.Persona {
	if p == nil {
		return nil
	}
	return &model.Persona{
		ConversationId: p.ConversationId,
		Persona:        p.Persona,
		UpdatedAt:      p.UpdatedAt,
	}
}
