package service

import (
	"context"
	"errors"
	"testing"

	"planeador/backend/internal/dto"
)

func TestReminderService_ListByDateAndMonth(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	bob := seedUser(t, repo, "bob@example.com")
	ctx := context.Background()

	for _, d := range []string{"2024-05-02", "2024-05-01", "2024-06-01"} {
		if _, err := svc.Reminder.Create(ctx, ana, &dto.ReminderRequest{Date: d, Title: "R " + d}); err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
	}
	_, _ = svc.Reminder.Create(ctx, bob, &dto.ReminderRequest{Date: "2024-05-01", Title: "Bob"})

	day, err := svc.Reminder.List(ctx, ana, &dto.ReminderListRequest{Date: "2024-05-01"})
	if err != nil || len(day) != 1 {
		t.Fatalf("按天查询期望 1 条，实际=%d err=%v", len(day), err)
	}
	if day[0].Importance != "baja" {
		t.Errorf("默认重要程度应为 baja，实际=%s", day[0].Importance)
	}

	month, _ := svc.Reminder.List(ctx, ana, &dto.ReminderListRequest{Month: "2024-05"})
	if len(month) != 2 || month[0].Date != "2024-05-01" {
		t.Errorf("按月查询应按日期升序返回 2 条，实际=%+v", month)
	}

	all, _ := svc.Reminder.List(ctx, ana, &dto.ReminderListRequest{})
	if len(all) != 3 {
		t.Errorf("全部查询期望 3 条，实际=%d", len(all))
	}
}

func TestReminderService_Validation(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.ReminderRequest
		want error
	}{
		{"bad date", dto.ReminderRequest{Date: "2024-13-01", Title: "x"}, ErrInvalidDate},
		{"blank title", dto.ReminderRequest{Date: "2024-05-01", Title: " "}, ErrReminderTitleEmpty},
		{"bad importance", dto.ReminderRequest{Date: "2024-05-01", Title: "x", Importance: "urgente"}, ErrInvalidImportance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Reminder.Create(ctx, ana, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}

	if _, err := svc.Reminder.List(ctx, ana, &dto.ReminderListRequest{Month: "2024-5"}); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("期望 ErrInvalidMonth，实际: %v", err)
	}
}

func TestReminderService_UpdateDelete_OwnerOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ana := seedUser(t, repo, "ana@example.com")
	bob := seedUser(t, repo, "bob@example.com")
	ctx := context.Background()
	r, _ := svc.Reminder.Create(ctx, ana, &dto.ReminderRequest{Date: "2024-05-01", Title: "Examen"})

	req := &dto.ReminderRequest{Date: "2024-05-03", Title: "Examen final", Importance: "alta"}
	if _, err := svc.Reminder.Update(ctx, r.ID, bob, req); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("其他用户更新期望 ErrReminderNotFound，实际: %v", err)
	}
	updated, err := svc.Reminder.Update(ctx, r.ID, ana, req)
	if err != nil || updated.Date != "2024-05-03" || updated.Importance != "alta" {
		t.Errorf("更新结果不符: %+v err=%v", updated, err)
	}

	if err := svc.Reminder.Delete(ctx, r.ID, bob); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("其他用户删除期望 ErrReminderNotFound，实际: %v", err)
	}
	if err := svc.Reminder.Delete(ctx, r.ID, ana); err != nil {
		t.Errorf("Delete 应成功: %v", err)
	}
}
