package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubTalleres struct {
	talleres map[uuid.UUID]model.Taller
}

var _ repository.TallerRepository = (*stubTalleres)(nil)

func newStubTalleres(ts ...model.Taller) *stubTalleres {
	r := &stubTalleres{talleres: map[uuid.UUID]model.Taller{}}
	for _, t := range ts {
		r.talleres[t.ID] = t
	}
	return r
}

func (r *stubTalleres) IDsPorRed(_ context.Context, redID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, t := range r.talleres {
		if t.RedID != nil && *t.RedID == redID {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (r *stubTalleres) FindByID(_ context.Context, id uuid.UUID) (*model.Taller, error) {
	t, ok := r.talleres[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *stubTalleres) List(_ context.Context, sc scope.Scope) ([]model.Taller, error) {
	var out []model.Taller
	for _, t := range r.talleres {
		if sc.Permite(t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubValoraciones struct {
	rows        map[uuid.UUID]model.Valoracion
	errWorkflow error
	listCalls   int
}

var _ repository.ValoracionRepository = (*stubValoraciones)(nil)

func newStubValoraciones(vs ...model.Valoracion) *stubValoraciones {
	r := &stubValoraciones{rows: map[uuid.UUID]model.Valoracion{}}
	for _, v := range vs {
		r.rows[v.ID] = v
	}
	return r
}

func (r *stubValoraciones) Create(_ context.Context, v *model.Valoracion) error {
	v.ID = uuid.New()
	r.rows[v.ID] = *v
	return nil
}

func (r *stubValoraciones) FindByID(_ context.Context, sc scope.Scope, id uuid.UUID) (*model.Valoracion, error) {
	v, ok := r.rows[id]
	if !ok || !sc.Permite(v.TallerID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *stubValoraciones) List(ctx context.Context, sc scope.Scope, q repository.ValoracionQuery) ([]model.Valoracion, int64, error) {
	r.listCalls++
	vs, _ := r.ListAll(ctx, sc)
	var out []model.Valoracion
	for _, v := range vs {
		if q.Estado != "" && v.Estado != q.Estado {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *stubValoraciones) ListAll(_ context.Context, sc scope.Scope) ([]model.Valoracion, error) {
	var out []model.Valoracion
	for _, v := range r.rows {
		if sc.Permite(v.TallerID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubValoraciones) Update(_ context.Context, v *model.Valoracion) error {
	r.rows[v.ID] = *v
	return nil
}

func (r *stubValoraciones) UpdateWorkflow(_ context.Context, v *model.Valoracion) error {
	if r.errWorkflow != nil {
		return r.errWorkflow
	}
	r.rows[v.ID] = *v
	return nil
}

type stubComentarios struct {
	rows []model.ComentarioValoracion
}

var _ repository.ComentarioRepository = (*stubComentarios)(nil)

func (r *stubComentarios) Create(_ context.Context, c *model.ComentarioValoracion) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	r.rows = append(r.rows, *c)
	return nil
}

func (r *stubComentarios) ListByValoracion(_ context.Context, id uuid.UUID) ([]model.ComentarioValoracion, error) {
	var out []model.ComentarioValoracion
	for _, c := range r.rows {
		if c.ValoracionID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubUsuarios struct {
	users map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarios)(nil)

func newStubUsuarios(us ...*model.Usuario) *stubUsuarios {
	r := &stubUsuarios{users: map[uuid.UUID]*model.Usuario{}}
	for _, u := range us {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUsuarios) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarios) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarios) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarios) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.users {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarios) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarios) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	return nil
}

type stubClientes struct {
	rows         map[uuid.UUID]model.Cliente
	errVehiculos error
	borrados     []uuid.UUID
}

var _ repository.ClienteRepository = (*stubClientes)(nil)

func newStubClientes(cs ...model.Cliente) *stubClientes {
	r := &stubClientes{rows: map[uuid.UUID]model.Cliente{}}
	for _, c := range cs {
		r.rows[c.ID] = c
	}
	return r
}

func (r *stubClientes) Create(_ context.Context, c *model.Cliente) error {
	c.ID = uuid.New()
	r.rows[c.ID] = *c
	return nil
}

func (r *stubClientes) FindByID(_ context.Context, sc scope.Scope, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.rows[id]
	if !ok || !sc.Permite(c.TallerID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubClientes) List(_ context.Context, sc scope.Scope, q repository.ClienteQuery) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.rows {
		if sc.Permite(c.TallerID) && (c.Activo || q.IncluirInactivos) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubClientes) Update(_ context.Context, c *model.Cliente) error {
	prev := r.rows[c.ID]
	c2 := *c
	c2.Vehiculos = prev.Vehiculos
	r.rows[c.ID] = c2
	return nil
}

func (r *stubClientes) ReplaceVehiculos(_ context.Context, clienteID uuid.UUID, vs []model.VehiculoCliente) error {
	if r.errVehiculos != nil {
		err := r.errVehiculos
		r.errVehiculos = nil
		return err
	}
	c := r.rows[clienteID]
	c.Vehiculos = append([]model.VehiculoCliente(nil), vs...)
	r.rows[clienteID] = c
	return nil
}

func (r *stubClientes) SetActivo(_ context.Context, sc scope.Scope, id uuid.UUID, activo bool) error {
	c, ok := r.rows[id]
	if !ok || !sc.Permite(c.TallerID) {
		return gorm.ErrRecordNotFound
	}
	c.Activo = activo
	r.rows[id] = c
	return nil
}

func (r *stubClientes) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	r.borrados = append(r.borrados, id)
	return nil
}

type stubFacturas struct {
	rows      map[uuid.UUID]model.Factura
	errLineas error
	borradas  []uuid.UUID
}

var _ repository.FacturaRepository = (*stubFacturas)(nil)

func newStubFacturas() *stubFacturas {
	return &stubFacturas{rows: map[uuid.UUID]model.Factura{}}
}

func (r *stubFacturas) Create(_ context.Context, f *model.Factura) error {
	f.ID = uuid.New()
	r.rows[f.ID] = *f
	return nil
}

func (r *stubFacturas) FindByID(_ context.Context, sc scope.Scope, id uuid.UUID) (*model.Factura, error) {
	f, ok := r.rows[id]
	if !ok || !sc.Permite(f.TallerID) {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

func (r *stubFacturas) List(_ context.Context, sc scope.Scope, q repository.FacturaQuery) ([]model.Factura, int64, error) {
	var out []model.Factura
	for _, f := range r.rows {
		if !sc.Permite(f.TallerID) {
			continue
		}
		if q.Pagada != nil && f.Pagada != *q.Pagada {
			continue
		}
		if q.Desde != nil && f.FechaEmision.Before(*q.Desde) {
			continue
		}
		if q.Hasta != nil && !f.FechaEmision.Before(*q.Hasta) {
			continue
		}
		out = append(out, f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturas) Update(_ context.Context, f *model.Factura) error {
	prev := r.rows[f.ID]
	f2 := *f
	f2.Lineas = prev.Lineas
	r.rows[f.ID] = f2
	return nil
}

func (r *stubFacturas) ReplaceLineas(_ context.Context, facturaID uuid.UUID, ls []model.LineaFactura) error {
	if r.errLineas != nil {
		err := r.errLineas
		r.errLineas = nil
		return err
	}
	f := r.rows[facturaID]
	f.Lineas = append([]model.LineaFactura(nil), ls...)
	r.rows[facturaID] = f
	return nil
}

func (r *stubFacturas) SetPagada(_ context.Context, sc scope.Scope, id uuid.UUID, pagada bool) error {
	f, ok := r.rows[id]
	if !ok || !sc.Permite(f.TallerID) {
		return gorm.ErrRecordNotFound
	}
	f.Pagada = pagada
	r.rows[id] = f
	return nil
}

func (r *stubFacturas) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	r.borradas = append(r.borradas, id)
	return nil
}

func (r *stubFacturas) UltimoNumero(_ context.Context, tallerID uuid.UUID, prefijo string) (string, error) {
	var nums []string
	for _, f := range r.rows {
		if f.TallerID == tallerID && strings.HasPrefix(f.Numero, prefijo) {
			nums = append(nums, f.Numero)
		}
	}
	if len(nums) == 0 {
		return "", nil
	}
	sort.Strings(nums)
	return nums[len(nums)-1], nil
}

type stubFotos struct {
	rows      map[uuid.UUID]model.FotoValoracion
	errCreate error
}

var _ repository.FotoRepository = (*stubFotos)(nil)

func newStubFotos() *stubFotos { return &stubFotos{rows: map[uuid.UUID]model.FotoValoracion{}} }

func (r *stubFotos) Create(_ context.Context, f *model.FotoValoracion) error {
	if r.errCreate != nil {
		return r.errCreate
	}
	f.ID = uuid.New()
	r.rows[f.ID] = *f
	return nil
}

func (r *stubFotos) ListByValoracion(_ context.Context, id uuid.UUID) ([]model.FotoValoracion, error) {
	var out []model.FotoValoracion
	for _, f := range r.rows {
		if f.ValoracionID == id {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubFotos) FindByID(_ context.Context, valoracionID, id uuid.UUID) (*model.FotoValoracion, error) {
	f, ok := r.rows[id]
	if !ok || f.ValoracionID != valoracionID {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

func (r *stubFotos) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type stubInformes struct {
	rows map[uuid.UUID]model.InformeValoracion
}

var _ repository.InformeRepository = (*stubInformes)(nil)

func newStubInformes() *stubInformes {
	return &stubInformes{rows: map[uuid.UUID]model.InformeValoracion{}}
}

func (r *stubInformes) FindByValoracion(_ context.Context, id uuid.UUID) (*model.InformeValoracion, error) {
	i, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *stubInformes) Upsert(_ context.Context, i *model.InformeValoracion) error {
	r.rows[i.ValoracionID] = *i
	return nil
}

// ── Infra stubs ──────────────────────────────────────────────────────────────

type stubAlmacen struct {
	files map[string][]byte
}

var _ AlmacenArchivos = (*stubAlmacen)(nil)

func newStubAlmacen() *stubAlmacen { return &stubAlmacen{files: map[string][]byte{}} }

type nopSeekCloser struct{ *bytes.Reader }

func (nopSeekCloser) Close() error { return nil }

func (a *stubAlmacen) Guardar(key string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	a.files[key] = b
	return int64(len(b)), nil
}

func (a *stubAlmacen) Abrir(key string) (io.ReadSeekCloser, error) {
	b, ok := a.files[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return nopSeekCloser{bytes.NewReader(b)}, nil
}

func (a *stubAlmacen) Borrar(key string) error {
	delete(a.files, key)
	return nil
}

// stubFirmador signs by prefixing the key; good enough to trace it back.
type stubFirmador struct {
	firmas int
}

var _ FirmadorURLs = (*stubFirmador)(nil)

func (f *stubFirmador) Firmar(key string, _ time.Time) (string, error) {
	f.firmas++
	return "http://test/v1/archivos/" + key, nil
}

func (f *stubFirmador) Verificar(token string) (string, error) {
	if !strings.HasPrefix(token, "ok:") {
		return "", errors.New("firma invalida")
	}
	return strings.TrimPrefix(token, "ok:"), nil
}

type stubCache struct {
	entries       map[string]map[string]string
	invalidadas   []string
	errDisponible error
}

var _ CacheURLs = (*stubCache)(nil)

func newStubCache() *stubCache { return &stubCache{entries: map[string]map[string]string{}} }

func (c *stubCache) Get(_ context.Context, id string) (map[string]string, bool, error) {
	if c.errDisponible != nil {
		return nil, false, c.errDisponible
	}
	m, ok := c.entries[id]
	if !ok {
		return nil, false, nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp, true, nil
}

func (c *stubCache) Set(_ context.Context, id string, urls map[string]string) error {
	if c.errDisponible != nil {
		return c.errDisponible
	}
	c.entries[id] = urls
	return nil
}

func (c *stubCache) Invalidar(_ context.Context, id string) error {
	delete(c.entries, id)
	c.invalidadas = append(c.invalidadas, id)
	return nil
}

type stubCola struct {
	jobs []worker.EmailJob
}

var _ ColaCorreo = (*stubCola)(nil)

func (c *stubCola) EnqueueEmail(_ context.Context, job worker.EmailJob) error {
	c.jobs = append(c.jobs, job)
	return nil
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

func ptrID(id uuid.UUID) *uuid.UUID { return &id }

func ptrStr(s string) *string { return &s }

func gestorTaller(tallerID uuid.UUID) scope.AuthContext {
	return scope.AuthContext{UserID: uuid.New(), Rol: scope.GestorTaller, TallerID: ptrID(tallerID)}
}

func gestorRed(redID uuid.UUID) scope.AuthContext {
	return scope.AuthContext{UserID: uuid.New(), Rol: scope.GestorRed, RedID: ptrID(redID)}
}

func superAdmin() scope.AuthContext {
	return scope.AuthContext{UserID: uuid.New(), Rol: scope.SuperAdmin}
}
