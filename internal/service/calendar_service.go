package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"planeador/backend/config"
	"planeador/backend/internal/dto"
	"planeador/backend/internal/model"
	"planeador/backend/internal/repository"
)

// ── 日历导入导出 ──────────────────────────────────────────────
//
// 导入：每个 VEVENT 生成一条提醒
//   - date        = DTSTART 的日期部分（UTC 时间按配置时区换算）
//   - title       = SUMMARY
//   - description = DESCRIPTION
//   - importance  = media
// 缺少 DTSTART 或 SUMMARY 的事件跳过并计数。
// 文件超过 5MB 或缺少 END:VCALENDAR 时整体拒绝，不做部分导入。
//
// 导出：每条提醒一个全天 VEVENT，重要程度映射到 PRIORITY。
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize     = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout    = 30 * time.Second
	icsMaxRedirects    = 5
	icsProductID       = "-//Planeador Escolar//Recordatorios//ES"
	icsCalendarEndLine = "END:VCALENDAR"
)

var (
	ErrInvalidICS    = errors.New("日历文件格式无效")
	ErrICSTooLarge   = errors.New("日历文件超过 5MB")
	ErrICSFetch      = errors.New("获取远程日历失败")
	ErrICSURLInvalid = errors.New("日历地址只支持 http、https 或 webcal")
	ErrICSURLBlocked = errors.New("日历地址指向内网或本机地址")
	errICSRedirects  = errors.New("重定向次数过多")
)

// CalendarService 日历导入导出接口
type CalendarService interface {
	// ImportICS 解析 ICS 数据流并批量写入提醒
	ImportICS(ctx context.Context, userID uint, r io.Reader) (*dto.ImportResultResponse, error)
	// ImportURL 下载远程 ICS（支持 webcal://）后导入
	ImportURL(ctx context.Context, userID uint, rawURL string) (*dto.ImportResultResponse, error)
	// ExportICS 导出当前用户全部提醒
	ExportICS(ctx context.Context, userID uint) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
	client *http.Client
	loc    *time.Location
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:   repo,
		logger: logger,
		client: newPublicHTTPClient(icsFetchTimeout),
		loc:    calendarLocation(cfg, logger),
	}
}

// calendarLocation 取 db.timezone，未配置或无法加载时用 UTC
func calendarLocation(cfg *config.Config, logger *zap.Logger) *time.Location {
	if cfg == nil || cfg.Database.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("时区无效，日历导入改用 UTC", zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		return time.UTC
	}
	return loc
}

// ────────────────────── Import ──────────────────────

func (s *calendarService) ImportICS(ctx context.Context, userID uint, r io.Reader) (*dto.ImportResultResponse, error) {
	reminders, skipped, err := ParseICS(r, s.loc)
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		reminders[i].UserID = userID
	}

	if len(reminders) > 0 {
		if err := s.repo.Reminder.BatchCreate(ctx, reminders); err != nil {
			s.logger.Error("导入日历失败", zap.Uint("user_id", userID), zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("导入日历",
		zap.Uint("user_id", userID),
		zap.Int("imported", len(reminders)),
		zap.Int("skipped", skipped),
	)
	return &dto.ImportResultResponse{Imported: len(reminders), Skipped: skipped}, nil
}

func (s *calendarService) ImportURL(ctx context.Context, userID uint, rawURL string) (*dto.ImportResultResponse, error) {
	body, err := s.fetchICS(ctx, rawURL)
	if err != nil {
		s.logger.Warn("获取远程日历失败", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	defer body.Close()
	return s.ImportICS(ctx, userID, body)
}

// fetchICS 从 URL 获取 ICS 内容，webcal:// 按 https:// 处理
func (s *calendarService) fetchICS(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, ErrICSURLInvalid
	}
	switch strings.ToLower(u.Scheme) {
	case "webcal":
		u.Scheme = "https"
	case "http", "https":
	default:
		return nil, ErrICSURLInvalid
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrICSURLInvalid
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrICSURLBlocked) {
			return nil, ErrICSURLBlocked
		}
		return nil, fmt.Errorf("%w: %v", ErrICSFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d", ErrICSFetch, resp.StatusCode)
	}
	return resp.Body, nil
}

// ── 出站请求 ──

// newPublicHTTPClient 只允许连接公网地址的 HTTP 客户端
// 校验发生在 DNS 解析之后的拨号阶段，重定向目标同样经过校验
func newPublicHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: rejectNonPublicAddr,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= icsMaxRedirects {
				return errICSRedirects
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return ErrICSURLInvalid
			}
			return nil
		},
	}
}

// rejectNonPublicAddr net.Dialer.Control 钩子，address 为解析后的 ip:port
func rejectNonPublicAddr(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrICSURLBlocked, address)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrICSURLBlocked, address)
	}
	if !isPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrICSURLBlocked, ip)
	}
	return nil
}

// 100.64.0.0/10 运营商级 NAT
var cgnatPrefix = netip.MustParsePrefix("100.64.0.0/10")

func isPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		ip.IsUnspecified():
		return false
	}
	return !(ip.Is4() && cgnatPrefix.Contains(ip))
}

// ── 解析 ──

// ParseICS 将 ICS 内容转为提醒列表，返回跳过的事件数
// UTC 时间按 loc 换算日期；loc 为 nil 时按 UTC
func ParseICS(r io.Reader, loc *time.Location) ([]model.Reminder, int, error) {
	data, err := io.ReadAll(io.LimitReader(r, icsMaxFileSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidICS, err)
	}
	if len(data) > icsMaxFileSize {
		return nil, 0, ErrICSTooLarge
	}
	if !endsWithCalendarEnd(data) {
		return nil, 0, fmt.Errorf("%w: 缺少 %s", ErrInvalidICS, icsCalendarEndLine)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidICS, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	var (
		reminders []model.Reminder
		skipped   int
	)
	for _, evt := range cal.Events() {
		if evt == nil {
			skipped++
			continue
		}
		reminder, ok := reminderFromEvent(evt, loc)
		if !ok {
			skipped++
			continue
		}
		reminders = append(reminders, reminder)
	}
	return reminders, skipped, nil
}

// endsWithCalendarEnd 最后一个非空行必须是 END:VCALENDAR
func endsWithCalendarEnd(data []byte) bool {
	last := ""
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), icsMaxFileSize+1)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	if sc.Err() != nil {
		return false
	}
	return strings.EqualFold(last, icsCalendarEndLine)
}

func reminderFromEvent(evt *ics.VEvent, loc *time.Location) (model.Reminder, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.Reminder{}, false
	}
	start := evt.GetProperty(ics.ComponentPropertyDtStart)
	if start == nil {
		return model.Reminder{}, false
	}
	date, err := icsDate(start, loc)
	if err != nil {
		return model.Reminder{}, false
	}

	description := ""
	if desc := evt.GetProperty(ics.ComponentPropertyDescription); desc != nil {
		description = strings.TrimSpace(desc.Value)
	}

	return model.Reminder{
		Date:        date,
		Title:       truncate(strings.TrimSpace(summary.Value), 200),
		Description: description,
		Importance:  model.ImportanceMedium,
	}, true
}

// icsDate 取 DTSTART 的日期部分
// UTC 时间换算到 loc 后取日期，带 TZID 或浮动时间直接取日期
func icsDate(prop *ics.IANAProperty, loc *time.Location) (string, error) {
	val := strings.TrimSpace(prop.Value)
	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc).Format(dateLayout), nil
	}
	for _, layout := range []string{"20060102T150405", "20060102"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	return "", fmt.Errorf("无法解析日期: %s", val)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ────────────────────── Export ──────────────────────

func (s *calendarService) ExportICS(ctx context.Context, userID uint) (string, error) {
	reminders, err := s.repo.Reminder.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	now := time.Now().UTC()
	for _, r := range reminders {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			s.logger.Warn("跳过日期无效的提醒", zap.Uint("reminder_id", r.ID), zap.String("date", r.Date))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("reminder-%d-%d@planeador", userID, r.ID))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(r.Title)
		if r.Description != "" {
			event.SetDescription(r.Description)
		}
		event.SetProperty(ics.ComponentPropertyPriority, icsPriority(r.Importance))
	}

	return cal.Serialize(), nil
}

// icsPriority RFC 5545 PRIORITY：1 最高，9 最低
func icsPriority(importance string) string {
	switch importance {
	case model.ImportanceHigh:
		return "1"
	case model.ImportanceMedium:
		return "5"
	default:
		return "9"
	}
}
