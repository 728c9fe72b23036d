package implementation

import (
	"context"
	"errors"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/mapper"
	"persona-chat-be/internal/model"
	"persona-chat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PersonaRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonaMapper
}

func NewPersonaRepository(db *gorm.DB) contract.PersonaRepository {
	return &PersonaRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonaMapper(),
	}
}

func (r *PersonaRepositoryImpl) Upsert(ctx context.Context, persona *entity.Persona) error {
	m := r.mapper.ToModel(persona)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"persona", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*persona = *r.mapper.ToEntity(m)
	return nil
}

func (r *PersonaRepositoryImpl) FindByConversationId(ctx context.Context, conversationId int64) (*entity.Persona, error) {
	var m model.Persona
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
