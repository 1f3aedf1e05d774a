package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/hunty-api/internal/domain/entity"
)

// DefaultChannel - канал Redis для публикации фактов
const DefaultChannel = "hunty:events"

// Emitter публикует факты о произошедшем в системе: пишет запись в таблицу events
// и отправляет JSON в Redis-канал для внешних потребителей.
// Публикация фактов - best-effort: её сбой логируется, но не прерывает операцию,
// внутренняя логика на фактах не строится.
type Emitter struct {
	db      *gorm.DB
	client  redis.UniversalClient
	channel string
	ctx     context.Context
}

// NewEmitter создает новый эмиттер фактов. Redis-клиент может быть nil -
// тогда факты только сохраняются в базу.
func NewEmitter(db *gorm.DB, client redis.UniversalClient) *Emitter {
	return &Emitter{
		db:      db,
		client:  client,
		channel: DefaultChannel,
		ctx:     context.Background(),
	}
}

// Emit фиксирует факт указанного типа с произвольной полезной нагрузкой
func (e *Emitter) Emit(eventType string, huntID, actorID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Events] Ошибка сериализации полезной нагрузки для %s: %v", eventType, err)
		data = []byte("{}")
	}

	event := entity.Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		HuntID:  huntID,
		ActorID: actorID,
		Payload: string(data),
	}

	if err := e.db.Create(&event).Error; err != nil {
		log.Printf("[Events] Ошибка сохранения факта %s: %v", eventType, err)
	}

	if e.client != nil {
		msg, err := json.Marshal(event)
		if err == nil {
			if err := e.client.Publish(e.ctx, e.channel, msg).Err(); err != nil {
				log.Printf("[Events] Ошибка публикации факта %s в Redis: %v", eventType, err)
			}
		}
	}
}
