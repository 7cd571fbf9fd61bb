package mailer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/gomail.v2"

	"trip-expense/backend/config"
)

// Attachment 邮件附件（内存内容）
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message 待发送邮件
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPSender 基于 gomail 的 SMTP 发送实现
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender 根据邮件配置创建 SMTPSender
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send 建立一次 SMTP 会话并发送；gomail 本身不支持 ctx，仅在发送前检查取消
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("邮件缺少收件人")
	}
	if err := s.dialer.DialAndSend(buildMessage(s.from, msg)); err != nil {
		return fmt.Errorf("SMTP 发送失败: %w", err)
	}
	return nil
}

func buildMessage(from string, msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	for _, a := range msg.Attachments {
		content := a.Content
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
		)
	}
	return m
}

// DirSender 将邮件落盘而不发送，用于报表任务的 dry-run
// 每封邮件写入 <Dir>/<收件人>/ 下：正文 message.txt 与全部附件
type DirSender struct {
	Dir string
}

// Send 写出正文与附件
func (s *DirSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recipient := "unknown"
	if len(msg.To) > 0 {
		recipient = sanitize(msg.To[0])
	}
	dir := filepath.Join(s.Dir, recipient)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	body := "Subject: " + msg.Subject + "\n\n" + msg.Body + "\n"
	if err := os.WriteFile(filepath.Join(dir, "message.txt"), []byte(body), 0o644); err != nil {
		return fmt.Errorf("写入邮件正文失败: %w", err)
	}
	for _, a := range msg.Attachments {
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(a.Filename)), a.Content, 0o644); err != nil {
			return fmt.Errorf("写入附件 %s 失败: %w", a.Filename, err)
		}
	}
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' || r == '@' {
			return r
		}
		return '_'
	}, s)
}
