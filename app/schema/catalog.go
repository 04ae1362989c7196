// Package schema defines the storefront's read-only GraphQL catalogue:
//
//	{ products(category: "audio") { id name price stock } }
//	{ product(id: 3) { name description image } }
package schema

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/nexus/app/models"
	"github.com/shashiranjanraj/nexus/pkg/apperr"
	gql "github.com/shashiranjanraj/nexus/pkg/graphql"
	"github.com/shashiranjanraj/nexus/pkg/logger"
)

// Catalog is the read side of services.CatalogService.
type Catalog interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: product(func(p models.Product) any { return int(p.ID) })},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: product(func(p models.Product) any { return p.Name })},
		"description": &graphql.Field{Type: graphql.String, Resolve: product(func(p models.Product) any { return p.Description })},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float), Resolve: product(func(p models.Product) any { return p.Price.InexactFloat64() })},
		"image":       &graphql.Field{Type: graphql.String, Resolve: product(func(p models.Product) any { return p.Image })},
		"stock":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int), Resolve: product(func(p models.Product) any { return p.Stock })},
		"category":    &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: product(func(p models.Product) any { return p.Category })},
	},
})

func product(get func(models.Product) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if prod, ok := p.Source.(models.Product); ok {
			return get(prod), nil
		}
		return nil, nil
	}
}

// Catalogue builds the schema over c.
func Catalogue(c Catalog) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					products, err := c.ListProducts(p.Context, category)
					if err != nil {
						return nil, clientError(p.Context, err)
					}
					return products, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					prod, err := c.GetProduct(p.Context, uint(id))
					if errors.Is(err, apperr.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, clientError(p.Context, err)
					}
					return prod, nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					cats, err := c.Categories(p.Context)
					if err != nil {
						return nil, clientError(p.Context, err)
					}
					return cats, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// clientError strips the cause so database details never reach the
// "errors" array.
func clientError(ctx context.Context, err error) error {
	logger.WithCtx(ctx).Error("graphql resolver failed", "error", err)
	return errors.New(apperr.Message(err))
}
