package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// refTable is one admin collection.
type refTable[T models.Reference] struct {
	b        *Backend
	path     string
	items    map[int64]T
	setID    func(*T, int64)
	required string
	notFound string
	// blocked returns a message when id must not be deleted.
	blocked func(id int64) string
	// matches applies list filters.
	matches func(T, url.Values) bool
	// fill completes derived fields before the item is returned.
	fill func(T) T
}

func (t *refTable[T]) routes(r chi.Router) {
	r.Get(t.path, t.list)
	r.Post(t.path, t.create)
	r.Put(t.path+"/{id}", t.update)
	r.Delete(t.path+"/{id}", t.delete)
}

func (t *refTable[T]) sorted() []T {
	ids := make([]int64, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.fill(t.items[id]))
	}
	return out
}

func (t *refTable[T]) list(w http.ResponseWriter, r *http.Request) {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	out := []T{}
	for _, item := range t.sorted() {
		if t.matches(item, r.URL.Query()) {
			out = append(out, item)
		}
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: out})
}

func (t *refTable[T]) insert(item T) T {
	t.setID(&item, t.b.id())
	t.items[item.RefID()] = item
	return t.fill(item)
}

func (t *refTable[T]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decode(r, &item); err != nil || item.Validate() != nil {
		fail(w, http.StatusBadRequest, t.required)
		return
	}
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Criado com sucesso", Data: t.insert(item)})
}

func (t *refTable[T]) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	item, ok := t.items[id]
	if !ok {
		fail(w, http.StatusNotFound, t.notFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		fail(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	t.setID(&item, id)
	t.items[id] = item
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Atualizado com sucesso", Data: t.fill(item)})
}

func (t *refTable[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		fail(w, http.StatusNotFound, t.notFound)
		return
	}
	if msg := t.blocked(id); msg != "" {
		fail(w, http.StatusBadRequest, msg)
		return
	}
	delete(t.items, id)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Excluído com sucesso"})
}

func filterID(q url.Values, key string, id int64) bool {
	want := q.Get(key)
	return want == "" || want == strconv.FormatInt(id, 10)
}

func (b *Backend) initRefTables() {
	never := func(int64) string { return "" }

	b.brands = &refTable[models.CarBrand]{
		b: b, path: "/car-brands", items: map[int64]models.CarBrand{},
		setID:    func(v *models.CarBrand, id int64) { v.ID = id },
		required: "Nome da marca é obrigatório",
		notFound: "Marca não encontrada",
		blocked: func(id int64) string {
			n := 0
			for _, m := range b.carModels.items {
				if m.BrandID == id {
					n++
				}
			}
			if n > 0 {
				return fmt.Sprintf("Não é possível excluir esta marca pois existem %d modelos associados a ela", n)
			}
			return ""
		},
		matches: func(models.CarBrand, url.Values) bool { return true },
		fill:    func(v models.CarBrand) models.CarBrand { return v },
	}
	b.carModels = &refTable[models.CarModel]{
		b: b, path: "/car-models", items: map[int64]models.CarModel{},
		setID:    func(v *models.CarModel, id int64) { v.ID = id },
		required: "Nome do modelo e marca são obrigatórios",
		notFound: "Modelo não encontrado",
		blocked:  never,
		matches:  func(v models.CarModel, q url.Values) bool { return filterID(q, "brand_id", v.BrandID) },
		fill: func(v models.CarModel) models.CarModel {
			v.BrandName = b.brands.items[v.BrandID].Name
			return v
		},
	}
	b.companies = &refTable[models.RentACar]{
		b: b, path: "/rent-a-cars", items: map[int64]models.RentACar{},
		setID:    func(v *models.RentACar, id int64) { v.ID = id },
		required: "Nome da empresa é obrigatório",
		notFound: "Rent-a-car não encontrada",
		blocked: func(id int64) string {
			for _, l := range b.locations.items {
				if l.RentACarID == id {
					return "Não é possível excluir esta empresa pois existem lojas associadas a ela"
				}
			}
			return ""
		},
		matches: func(models.RentACar, url.Values) bool { return true },
		fill:    func(v models.RentACar) models.RentACar { return v },
	}
	b.locations = &refTable[models.StoreLocation]{
		b: b, path: "/store-locations", items: map[int64]models.StoreLocation{},
		setID:    func(v *models.StoreLocation, id int64) { v.ID = id },
		required: "Nome da loja e rent-a-car são obrigatórios",
		notFound: "Loja não encontrada",
		blocked:  never,
		matches:  func(v models.StoreLocation, q url.Values) bool { return filterID(q, "rent_a_car_id", v.RentACarID) },
		fill: func(v models.StoreLocation) models.StoreLocation {
			v.RentACarName = b.companies.items[v.RentACarID].Name
			return v
		},
	}
}

func (b *Backend) AddBrand(name string) models.CarBrand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brands.insert(models.CarBrand{Name: name, IsActive: true})
}

func (b *Backend) AddCarModel(name string, brandID int64) models.CarModel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.carModels.insert(models.CarModel{Name: name, BrandID: brandID, IsActive: true})
}

func (b *Backend) AddCompany(name string) models.RentACar {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.companies.insert(models.RentACar{Name: name, IsActive: true})
}

func (b *Backend) AddLocation(name string, companyID int64) models.StoreLocation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locations.insert(models.StoreLocation{Name: name, RentACarID: companyID, IsActive: true})
}
