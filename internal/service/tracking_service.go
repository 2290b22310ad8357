package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"neuvera-go/internal/model"
	"neuvera-go/internal/repository"
	"neuvera-go/pkg/hash"
	"neuvera-go/pkg/kafka"
	"neuvera-go/pkg/log"
	"neuvera-go/pkg/metrics"
)

// TrackingService 定义了埋点写入操作。
type TrackingService interface {
	// Track 保存一条埋点。clientIP 在请求未携带 ip_address 时使用，userID 可为 nil。
	Track(ctx context.Context, req model.TrackingRequest, clientIP string, userID *string) (*model.TrackResponse, error)
}

type trackingService struct {
	eventRepo repository.EventRepository
	publisher kafka.Publisher
}

func NewTrackingService(eventRepo repository.EventRepository, publisher kafka.Publisher) TrackingService {
	return &trackingService{eventRepo: eventRepo, publisher: publisher}
}

func (s *trackingService) Track(ctx context.Context, req model.TrackingRequest, clientIP string, userID *string) (*model.TrackResponse, error) {
	ip := req.IPAddress
	if ip == "" {
		ip = clientIP
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	// 原始 IP 不落盘
	event := &model.TrackingEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventType: req.EventType,
		PageURL:   req.PageURL,
		UserAgent: req.UserAgent,
		IPAddress: hash.HashIdentifier(ip),
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		metrics.RecordTrackingEvent("failed")
		log.Errorw("failed to store tracking event", "eventType", req.EventType, "error", err)
		return nil, ErrTrackingFailed
	}
	metrics.RecordTrackingEvent("stored")

	if err := s.publisher.PublishTrackingEvent(ctx, event); err != nil {
		log.Warnw("failed to publish tracking event", "eventId", event.ID, "error", err)
	}

	return &model.TrackResponse{Status: "success", EventID: event.ID}, nil
}
