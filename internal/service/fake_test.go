package service

import (
	"context"
	"strings"
	"sync"

	"inviteflow/internal/dao"
	"inviteflow/internal/model/entity"

	"gorm.io/gorm"
)

// fakeAccountDao 内存实现，语义与 query.accountDao 保持一致
type fakeAccountDao struct {
	mu       sync.Mutex
	accounts map[int64]*entity.Account
	logs     []entity.AccountLog
	// 模拟数据损坏，按手机号或邀请码返回多条
	duplicatePhones  map[string]bool
	duplicateInvites map[string]bool
	// 模拟邀请码冲突的次数
	inviteConflicts int
	// 模拟mysql不区分大小写的排序规则
	foldInviteCase bool
}

var _ dao.AccountDao = (*fakeAccountDao)(nil)

func newFakeAccountDao() *fakeAccountDao {
	return &fakeAccountDao{
		accounts:         make(map[int64]*entity.Account),
		duplicatePhones:  make(map[string]bool),
		duplicateInvites: make(map[string]bool),
	}
}

func (f *fakeAccountDao) AccountGetOrCreate(_ context.Context, id int64, phone string) (entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.PhoneNumber == phone {
			return *a, nil
		}
	}
	a := &entity.Account{Id: id, PhoneNumber: phone}
	f.accounts[id] = a
	return *a, nil
}

func (f *fakeAccountDao) AccountGetById(_ context.Context, id int64) (entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return *a, nil
	}
	return entity.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccountDao) AccountGetByPhone(_ context.Context, phone string) (entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.duplicatePhones[phone] {
		return entity.Account{}, dao.ErrMultipleRecords
	}
	for _, a := range f.accounts {
		if a.PhoneNumber == phone {
			return *a, nil
		}
	}
	return entity.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccountDao) AccountGetByPhoneAndCode(_ context.Context, phone, code string) (entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.PhoneNumber == phone && a.AuthCode == code {
			return *a, nil
		}
	}
	return entity.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccountDao) AccountGetByInviteCode(_ context.Context, code string) (entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.duplicateInvites[code] {
		return entity.Account{}, dao.ErrMultipleRecords
	}
	for _, a := range f.accounts {
		if a.InviteCode == nil {
			continue
		}
		if *a.InviteCode == code || (f.foldInviteCase && strings.EqualFold(*a.InviteCode, code)) {
			return *a, nil
		}
	}
	return entity.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccountDao) AccountCountInvitees(_ context.Context, inviterId int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.accounts {
		if a.InvitedBy != nil && *a.InvitedBy == inviterId {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountDao) AccountUpdateAuthCode(_ context.Context, id int64, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		a.AuthCode = code
	}
	return nil
}

func (f *fakeAccountDao) AccountUpdateInviteCode(_ context.Context, id int64, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inviteConflicts > 0 {
		f.inviteConflicts--
		return gorm.ErrDuplicatedKey
	}
	for _, a := range f.accounts {
		if a.Id != id && a.InviteCode != nil && *a.InviteCode == code {
			return gorm.ErrDuplicatedKey
		}
	}
	if a, ok := f.accounts[id]; ok {
		a.InviteCode = &code
	}
	return nil
}

func (f *fakeAccountDao) AccountSetInviter(_ context.Context, id, inviterId int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok || a.InvitedBy != nil {
		return false, nil
	}
	a.InvitedBy = &inviterId
	return true, nil
}

func (f *fakeAccountDao) AccountDelete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountDao) AccountAddLog(_ context.Context, log *entity.AccountLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *log)
	return nil
}

// account 直接读取内部状态
func (f *fakeAccountDao) account(phone string) entity.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.PhoneNumber == phone {
			return *a
		}
	}
	return entity.Account{}
}

type producedMessage struct {
	topic string
	key   []byte
	msg   interface{}
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []producedMessage
	err      error
}

func (p *fakeProducer) Produce(_ context.Context, topic string, key []byte, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, producedMessage{topic: topic, key: key, msg: msg})
	return nil
}

func (p *fakeProducer) Close() error {
	return nil
}

func (p *fakeProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}
