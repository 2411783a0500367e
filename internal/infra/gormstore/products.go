package gormstore

import (
	"context"
	"errors"

	"app/internal/domain/model"
	"app/internal/repository"

	"gorm.io/gorm"
)

func (s *Store) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Images == nil {
			products[i].Images = []string{}
		}
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p model.Product) (int64, repository.Outcome, error) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if len(p.Images) > model.MaxProductImages {
		p.Images = p.Images[:model.MaxProductImages]
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, repository.OutcomeOK, err
	}
	return p.ID, repository.OutcomeOK, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p model.Product) (repository.Outcome, error) {
	if p.Images == nil {
		p.Images = []string{}
	}
	if len(p.Images) > model.MaxProductImages {
		p.Images = p.Images[:model.MaxProductImages]
	}
	res := s.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price,
		"description": p.Description,
		"images":      p.Images,
		"stock":       p.Stock,
	})
	if res.Error != nil {
		return repository.OutcomeOK, res.Error
	}
	if res.RowsAffected == 0 {
		return repository.OutcomeOK, repository.ErrNotFound
	}
	return repository.OutcomeOK, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (repository.Outcome, error) {
	return repository.OutcomeOK, s.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (s *Store) AddProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		if len(p.Images) >= model.MaxProductImages {
			return nil
		}
		for _, img := range p.Images {
			if img == filename {
				return nil
			}
		}
		p.Images = append(p.Images, filename)
		return tx.Model(&model.Product{}).Where("id = ?", id).Update("images", p.Images).Error
	})
	return repository.OutcomeOK, err
}

func (s *Store) RemoveProductImage(ctx context.Context, id int64, filename string) (repository.Outcome, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		kept := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			if img != filename {
				kept = append(kept, img)
			}
		}
		return tx.Model(&model.Product{}).Where("id = ?", id).Update("images", kept).Error
	})
	return repository.OutcomeOK, err
}
