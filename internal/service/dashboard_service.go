package service

import (
	"time"

	"go-scrapyard-ws/internal/repository"
)

type DashboardService interface {
	GetMovement(days int) ([]repository.MovementPoint, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	txRepo  repository.TransactionRepository
	invRepo repository.InventoryRepository
}

func NewDashboardService(txRepo repository.TransactionRepository, invRepo repository.InventoryRepository) DashboardService {
	return &dashboardService{txRepo: txRepo, invRepo: invRepo}
}

func (s *dashboardService) GetMovement(days int) ([]repository.MovementPoint, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.invRepo.GetDashboardStats()
}
