// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Respalda los tests de casos de uso; no persiste nada entre
// procesos y el runner no tiene rollback.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

// Store contenedor único de todas las colecciones.
type Store struct {
	mu           sync.Mutex
	companies    map[string]*entity.Company
	parties      map[string]*entity.Party
	regimes      map[string]*entity.Regime
	sequences    map[string]*entity.RegimeSequence
	vouchers     map[string]*entity.Voucher
	invoices     map[string]*entity.Invoice
	withholdings map[string]*entity.Withholding
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:    make(map[string]*entity.Company),
		parties:      make(map[string]*entity.Party),
		regimes:      make(map[string]*entity.Regime),
		sequences:    make(map[string]*entity.RegimeSequence),
		vouchers:     make(map[string]*entity.Voucher),
		invoices:     make(map[string]*entity.Invoice),
		withholdings: make(map[string]*entity.Withholding),
	}
}

// Repos arma el paquete de repositorios sobre el almacén.
func (s *Store) Repos() withholding.Repos {
	return withholding.Repos{
		Companies:    &companyRepo{s},
		Parties:      &partyRepo{s},
		Regimes:      &regimeRepo{s},
		Vouchers:     &voucherRepo{s},
		Invoices:     &invoiceRepo{s},
		Withholdings: &withholdingRepo{s},
	}
}

// Runner devuelve un TxRunner que ejecuta fn directamente sobre el almacén.
func (s *Store) Runner() withholding.TxRunner {
	return &runner{s}
}

// PutSequence carga una secuencia de numeración (no hay alta por el puerto).
func (s *Store) PutSequence(seq *entity.RegimeSequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[seq.RegimeID+"|"+seq.CompanyID] = seq
}

type runner struct {
	s *Store
}

func (r *runner) Run(ctx context.Context, fn func(repos withholding.Repos) error) error {
	return fn(r.s.Repos())
}

// ── Company ──────────────────────────────────────────────────────────────────

type companyRepo struct {
	s *Store
}

var _ repository.CompanyRepository = (*companyRepo)(nil)

func (r *companyRepo) Create(company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[company.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *company
	r.s.companies[company.ID] = &c
	return nil
}

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *companyRepo) Update(company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *company
	r.s.companies[company.ID] = &c
	return nil
}

// ── Party ────────────────────────────────────────────────────────────────────

type partyRepo struct {
	s *Store
}

var _ repository.PartyRepository = (*partyRepo)(nil)

func clonParty(p *entity.Party) *entity.Party {
	out := *p
	out.Exemptions = append([]entity.PartyExemption(nil), p.Exemptions...)
	out.IIBBRegimes = append([]entity.PartyIIBBRegime(nil), p.IIBBRegimes...)
	return &out
}

func (r *partyRepo) Create(party *entity.Party) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.parties[party.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.parties[party.ID] = clonParty(party)
	return nil
}

func (r *partyRepo) GetByID(id string) (*entity.Party, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parties[id]
	if !ok {
		return nil, nil
	}
	return clonParty(p), nil
}

func (r *partyRepo) GetByCUIT(companyID, cuit string) (*entity.Party, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.parties {
		if p.CompanyID == companyID && p.CUIT == cuit {
			return clonParty(p), nil
		}
	}
	return nil, nil
}

func (r *partyRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Party, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Party
	for _, p := range r.s.parties {
		if p.CompanyID == companyID {
			list = append(list, clonParty(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *partyRepo) Update(party *entity.Party) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.parties[party.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clon := clonParty(party)
	clon.Exemptions = stored.Exemptions
	clon.IIBBRegimes = stored.IIBBRegimes
	r.s.parties[party.ID] = clon
	return nil
}

func (r *partyRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.parties, id)
	return nil
}

func (r *partyRepo) ReplaceExemptions(partyID string, exemptions []entity.PartyExemption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parties[partyID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Exemptions = append([]entity.PartyExemption(nil), exemptions...)
	return nil
}

func (r *partyRepo) ReplaceIIBBRegimes(partyID string, regimes []entity.PartyIIBBRegime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.parties[partyID]
	if !ok {
		return domain.ErrNotFound
	}
	p.IIBBRegimes = append([]entity.PartyIIBBRegime(nil), regimes...)
	return nil
}

// ── Regime ───────────────────────────────────────────────────────────────────

type regimeRepo struct {
	s *Store
}

var _ repository.RegimeRepository = (*regimeRepo)(nil)

func clonRegime(g *entity.Regime) *entity.Regime {
	out := *g
	out.Scales = append([]entity.ScaleTier(nil), g.Scales...)
	return &out
}

func (r *regimeRepo) Create(regime *entity.Regime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.regimes[regime.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.regimes[regime.ID] = clonRegime(regime)
	return nil
}

func (r *regimeRepo) GetByID(id string) (*entity.Regime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.regimes[id]
	if !ok {
		return nil, nil
	}
	return clonRegime(g), nil
}

func (r *regimeRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Regime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Regime
	for _, g := range r.s.regimes {
		if g.CompanyID == companyID {
			list = append(list, clonRegime(g))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *regimeRepo) ListByCompanyAndTax(companyID, tax, kind string) ([]*entity.Regime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Regime
	for _, g := range r.s.regimes {
		if g.CompanyID == companyID && g.Tax == tax && g.Kind == kind {
			list = append(list, clonRegime(g))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *regimeRepo) Update(regime *entity.Regime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.regimes[regime.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clon := clonRegime(regime)
	clon.Scales = stored.Scales
	r.s.regimes[regime.ID] = clon
	return nil
}

func (r *regimeRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.regimes, id)
	return nil
}

func (r *regimeRepo) ReplaceScales(regimeID string, scales []entity.ScaleTier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.regimes[regimeID]
	if !ok {
		return domain.ErrNotFound
	}
	g.Scales = append([]entity.ScaleTier(nil), scales...)
	return nil
}

func (r *regimeRepo) GetSequence(regimeID, companyID string) (*entity.RegimeSequence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seq, ok := r.s.sequences[regimeID+"|"+companyID]
	if !ok {
		return nil, nil
	}
	out := *seq
	return &out, nil
}

func (r *regimeRepo) NextNumber(regimeID, companyID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seq, ok := r.s.sequences[regimeID+"|"+companyID]
	if !ok {
		return "", domain.ErrNotFound
	}
	number := seq.NextNumber
	seq.NextNumber++
	return fmt.Sprintf("%s%0*d", seq.Prefix, seq.Padding, number), nil
}

// ── Voucher ──────────────────────────────────────────────────────────────────

type voucherRepo struct {
	s *Store
}

var _ repository.VoucherRepository = (*voucherRepo)(nil)

func clonVoucher(v *entity.Voucher) *entity.Voucher {
	out := *v
	out.Lines = append([]entity.VoucherLine(nil), v.Lines...)
	return &out
}

func (r *voucherRepo) Create(voucher *entity.Voucher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vouchers[voucher.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.vouchers[voucher.ID] = clonVoucher(voucher)
	return nil
}

func (r *voucherRepo) GetByID(id string) (*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return nil, nil
	}
	return clonVoucher(v), nil
}

func (r *voucherRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Voucher
	for _, v := range r.s.vouchers {
		if v.CompanyID == companyID {
			list = append(list, clonVoucher(v))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *voucherRepo) ListPostedByPartyAndPeriod(companyID, partyID, voucherType string, from, to time.Time) ([]*entity.Voucher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Voucher
	for _, v := range r.s.vouchers {
		if v.CompanyID != companyID || v.PartyID != partyID || v.VoucherType != voucherType {
			continue
		}
		if v.State != entity.VoucherStatePosted {
			continue
		}
		if v.Date.Before(from) || v.Date.After(to) {
			continue
		}
		list = append(list, clonVoucher(v))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

func (r *voucherRepo) Update(voucher *entity.Voucher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vouchers[voucher.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.vouchers[voucher.ID] = clonVoucher(voucher)
	return nil
}

func (r *voucherRepo) UpdateState(id, state string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vouchers[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.State = state
	v.UpdatedAt = time.Now()
	return nil
}

func (r *voucherRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.vouchers, id)
	return nil
}

// ── Invoice ──────────────────────────────────────────────────────────────────

type invoiceRepo struct {
	s *Store
}

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

func clonInvoice(i *entity.Invoice) *entity.Invoice {
	out := *i
	out.Lines = append([]entity.InvoiceLine(nil), i.Lines...)
	return &out
}

func (r *invoiceRepo) Create(invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[invoice.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.invoices[invoice.ID] = clonInvoice(invoice)
	return nil
}

func (r *invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return clonInvoice(i), nil
}

func (r *invoiceRepo) GetByIDs(ids []string) (map[string]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Invoice, len(ids))
	for _, id := range ids {
		if i, ok := r.s.invoices[id]; ok {
			out[id] = clonInvoice(i)
		}
	}
	return out, nil
}

func (r *invoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Invoice
	for _, i := range r.s.invoices {
		if i.CompanyID == companyID {
			list = append(list, clonInvoice(i))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *invoiceRepo) Update(invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[invoice.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[invoice.ID] = clonInvoice(invoice)
	return nil
}

func (r *invoiceRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	return nil
}

// ── Withholding ──────────────────────────────────────────────────────────────

type withholdingRepo struct {
	s *Store
}

var _ repository.WithholdingRepository = (*withholdingRepo)(nil)

func (r *withholdingRepo) Create(w *entity.Withholding) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.withholdings[w.ID]; ok {
		return domain.ErrDuplicate
	}
	clon := *w
	r.s.withholdings[w.ID] = &clon
	return nil
}

func (r *withholdingRepo) GetByID(id string) (*entity.Withholding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withholdings[id]
	if !ok {
		return nil, nil
	}
	out := *w
	return &out, nil
}

func (r *withholdingRepo) ListByVoucher(voucherID string) ([]*entity.Withholding, error) {
	return r.collect(func(w *entity.Withholding) bool { return w.VoucherID == voucherID }), nil
}

func (r *withholdingRepo) ListByInvoice(invoiceID string) ([]*entity.Withholding, error) {
	return r.collect(func(w *entity.Withholding) bool { return w.InvoiceID == invoiceID }), nil
}

func (r *withholdingRepo) ListByCompany(companyID string, filter repository.WithholdingFilter) ([]*entity.Withholding, error) {
	list := r.collect(func(w *entity.Withholding) bool {
		if w.CompanyID != companyID {
			return false
		}
		if filter.PartyID != "" && w.PartyID != filter.PartyID {
			return false
		}
		if filter.RegimeID != "" && w.RegimeID != filter.RegimeID {
			return false
		}
		if filter.State != "" && w.State != filter.State {
			return false
		}
		if filter.Kind != "" && w.Kind != filter.Kind {
			return false
		}
		if !filter.From.IsZero() && w.Date.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && w.Date.After(filter.To) {
			return false
		}
		return true
	})
	if filter.Limit > 0 {
		list = paginate(list, filter.Limit, filter.Offset)
	}
	return list, nil
}

func (r *withholdingRepo) SumIssuedByPartyPeriodRegime(companyID, partyID string, from, to time.Time, excludeVoucherID string) (map[string]repository.SumResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]repository.SumResult)
	for _, w := range r.s.withholdings {
		if w.CompanyID != companyID || w.PartyID != partyID {
			continue
		}
		if w.State != entity.WithholdingStateIssued && w.State != entity.WithholdingStateHeld {
			continue
		}
		if w.Date.Before(from) || w.Date.After(to) {
			continue
		}
		if excludeVoucherID != "" && w.VoucherID == excludeVoucherID {
			continue
		}
		sum := out[w.RegimeID]
		sum.Base = sum.Base.Add(w.PaymentAmount)
		sum.Amount = sum.Amount.Add(w.Amount)
		out[w.RegimeID] = sum
	}
	return out, nil
}

func (r *withholdingRepo) ListIssuedForExport(companyID string, from, to time.Time, taxFamilies, regimeIDs []string) ([]*entity.Withholding, error) {
	families := make(map[string]bool, len(taxFamilies))
	for _, f := range taxFamilies {
		families[f] = true
	}
	selected := make(map[string]bool, len(regimeIDs))
	for _, id := range regimeIDs {
		selected[id] = true
	}
	return r.collect(func(w *entity.Withholding) bool {
		if w.CompanyID != companyID || w.State != entity.WithholdingStateIssued {
			return false
		}
		if w.Date.Before(from) || w.Date.After(to) {
			return false
		}
		regime, ok := r.s.regimes[w.RegimeID]
		if !ok || !families[regime.Tax] {
			return false
		}
		if len(selected) > 0 && !selected[w.RegimeID] {
			return false
		}
		return true
	}), nil
}

func (r *withholdingRepo) collect(match func(*entity.Withholding) bool) []*entity.Withholding {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Withholding
	for _, w := range r.s.withholdings {
		if match(w) {
			clon := *w
			list = append(list, &clon)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].Number < list[j].Number
	})
	return list
}

func (r *withholdingRepo) Update(w *entity.Withholding) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.withholdings[w.ID]; !ok {
		return domain.ErrNotFound
	}
	clon := *w
	r.s.withholdings[w.ID] = &clon
	return nil
}

func (r *withholdingRepo) DeleteDraftByVoucher(voucherID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, w := range r.s.withholdings {
		if w.VoucherID == voucherID && w.State == entity.WithholdingStateDraft {
			delete(r.s.withholdings, id)
		}
	}
	return nil
}

func (r *withholdingRepo) DeleteDraftByInvoice(invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, w := range r.s.withholdings {
		if w.InvoiceID == invoiceID && w.State == entity.WithholdingStateDraft {
			delete(r.s.withholdings, id)
		}
	}
	return nil
}

func (r *withholdingRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.withholdings, id)
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
