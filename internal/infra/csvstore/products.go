package csvstore

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"
)

func decodeProduct(row map[string]string) model.Product {
	//imagesは空でもnilにしない
	images := []string{}
	decodeJSONColumn(row["images"], &images)
	if images == nil {
		images = []string{}
	}

	return model.Product{
		ID:          parseInt(row["id"]),
		Name:        row["name"],
		Category:    row["category"],
		Price:       parseFloat(row["price"]),
		Description: row["description"],
		Images:      images,
		Stock:       parseInt(row["stock"]),
	}
}

func encodeProduct(p model.Product) map[string]string {
	if p.Images == nil {
		p.Images = []string{}
	}
	return map[string]string{
		"id":          formatID(p.ID),
		"name":        p.Name,
		"category":    p.Category,
		"price":       formatFloat(p.Price),
		"description": p.Description,
		"images":      encodeJSONColumn(p.Images),
		"stock":       formatID(p.Stock),
	}
}

func capImages(images []string) []string {
	if len(images) > model.MaxProductImages {
		return images[:model.MaxProductImages]
	}
	return images
}

func (s *Store) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.readLocked(productsFile)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, decodeProduct(row))
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	rows, err := s.readLocked(productsFile)
	if err != nil {
		return model.Product{}, err
	}
	for _, row := range rows {
		if parseInt(row["id"]) == id {
			return decodeProduct(row), nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (s *Store) CreateProduct(ctx context.Context, p model.Product) (int64, repository.Outcome, error) {
	p.Images = capImages(p.Images)

	var id int64
	err := s.mutate(productsFile, func(rows []map[string]string) ([]map[string]string, error) {
		if p.ID == 0 {
			p.ID = nextID(rows)
		}
		id = p.ID
		return append(rows, encodeProduct(p)), nil
	})
	if err != nil {
		return 0, repository.OutcomeOK, err
	}
	return id, repository.OutcomeOK, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p model.Product) (repository.Outcome, error) {
	p.Images = capImages(p.Images)

	err := s.mutate(productsFile, func(rows []map[string]string) ([]map[string]string, error) {
		for i, row := range rows {
			if parseInt(row["id"]) == p.ID {
				rows[i] = encodeProduct(p)
				return rows, nil
			}
		}
		return nil, repository.ErrNotFound
	})
	return repository.OutcomeOK, err
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (repository.Outcome, error) {
	err := s.mutate(productsFile, func(rows []map[string]string) ([]map[string]string, error) {
		out := rows[:0]
		for _, row := range rows {
			if parseInt(row["id"]) != id {
				out = append(out, row)
			}
		}
		return out, nil
	})
	return repository.OutcomeOK, err
}

func (s *Store) AddProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	err := s.mutate(productsFile, func(rows []map[string]string) ([]map[string]string, error) {
		for i, row := range rows {
			if parseInt(row["id"]) != id {
				continue
			}
			p := decodeProduct(row)
			//上限到達・重複はno-op
			if len(p.Images) >= model.MaxProductImages || contains(p.Images, filename) {
				return nil, nil
			}
			p.Images = append(p.Images, filename)
			rows[i] = encodeProduct(p)
			return rows, nil
		}
		return nil, repository.ErrNotFound
	})
	return repository.OutcomeOK, err
}

func (s *Store) RemoveProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	err := s.mutate(productsFile, func(rows []map[string]string) ([]map[string]string, error) {
		for i, row := range rows {
			if parseInt(row["id"]) != id {
				continue
			}
			p := decodeProduct(row)
			kept := p.Images[:0]
			for _, img := range p.Images {
				if img != filename {
					kept = append(kept, img)
				}
			}
			p.Images = kept
			rows[i] = encodeProduct(p)
			return rows, nil
		}
		return nil, repository.ErrNotFound
	})
	return repository.OutcomeOK, err
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
