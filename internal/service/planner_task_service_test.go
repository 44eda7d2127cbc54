package service

import (
	"context"
	"errors"
	"testing"

	"planeador/backend/internal/dto"
)

func TestPlannerTaskService_CreateAndReplaceChildren(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	ctx := context.Background()

	created, err := svc.PlannerTask.Create(ctx, ana, &dto.PlannerTaskRequest{
		Title:    "Proyecto final",
		Date:     "2024-05-10",
		Topic:    "Equipo",
		Links:    []string{"https://a.example.com", " "},
		Contacts: []string{"Luis", "Marta"},
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if len(created.Links) != 1 || len(created.Contacts) != 2 {
		t.Errorf("子记录数量不符: %+v", created)
	}
	if created.Importance != "baja" || created.Topic == nil || *created.Topic != "Equipo" {
		t.Errorf("字段不符: %+v", created)
	}

	updated, err := svc.PlannerTask.Update(ctx, created.ID, ana, &dto.PlannerTaskRequest{
		Title:      "Proyecto final v2",
		Importance: "alta",
		Links:      []string{"https://b.example.com", "https://c.example.com"},
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(updated.Links) != 2 || updated.Links[0] != "https://b.example.com" || len(updated.Contacts) != 0 {
		t.Errorf("子记录应被整体替换: %+v", updated)
	}
	if updated.Date != nil || updated.Topic != nil {
		t.Errorf("未提供的日期与主题应清空: %+v", updated)
	}
}

func TestPlannerTaskService_OwnerOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	bob := seedUser(t, repo, "bob@example.com")
	ctx := context.Background()
	task, _ := svc.PlannerTask.Create(ctx, ana, &dto.PlannerTaskRequest{Title: "Privada", Contacts: []string{"Luis"}})

	if _, err := svc.PlannerTask.Get(ctx, task.ID, bob); !errors.Is(err, ErrPlannerTaskNotFound) {
		t.Errorf("期望 ErrPlannerTaskNotFound，实际: %v", err)
	}
	if _, err := svc.PlannerTask.Update(ctx, task.ID, bob, &dto.PlannerTaskRequest{Title: "x"}); !errors.Is(err, ErrPlannerTaskNotFound) {
		t.Errorf("期望 ErrPlannerTaskNotFound，实际: %v", err)
	}
	if err := svc.PlannerTask.Delete(ctx, task.ID, bob); !errors.Is(err, ErrPlannerTaskNotFound) {
		t.Errorf("期望 ErrPlannerTaskNotFound，实际: %v", err)
	}

	got, err := svc.PlannerTask.Get(ctx, task.ID, ana)
	if err != nil || len(got.Contacts) != 1 {
		t.Errorf("原任务应保持不变: %+v err=%v", got, err)
	}
}

func TestPlannerTaskService_ListByDate(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	ctx := context.Background()
	_, _ = svc.PlannerTask.Create(ctx, ana, &dto.PlannerTaskRequest{Title: "A", Date: "2024-05-10"})
	_, _ = svc.PlannerTask.Create(ctx, ana, &dto.PlannerTaskRequest{Title: "B", Date: "2024-05-11"})
	_, _ = svc.PlannerTask.Create(ctx, ana, &dto.PlannerTaskRequest{Title: "C"})

	day, err := svc.PlannerTask.List(ctx, ana, &dto.PlannerTaskListRequest{Date: "2024-05-10"})
	if err != nil || len(day) != 1 || day[0].Title != "A" {
		t.Errorf("按日期查询不符: %+v err=%v", day, err)
	}
	all, _ := svc.PlannerTask.List(ctx, ana, &dto.PlannerTaskListRequest{})
	if len(all) != 3 {
		t.Errorf("全部查询期望 3 条，实际=%d", len(all))
	}
	if _, err := svc.PlannerTask.List(ctx, ana, &dto.PlannerTaskListRequest{Date: "10/05/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}
