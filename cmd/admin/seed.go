package main

import (
	"context"
	"errors"
	"fmt"

	"diezagency/internal/domain/article"
	"diezagency/internal/domain/realisation"
)

type articleCreator interface {
	Create(ctx context.Context, req *article.CreateArticleRequest) (*article.Article, error)
}

type realisationCreator interface {
	Create(ctx context.Context, req *realisation.CreateRequest) (*realisation.Realisation, error)
}

type seedResult struct {
	Articles     int
	Realisations int
	Skipped      int
}

var demoArticles = []article.CreateArticleRequest{
	{
		Title:     "Automatiser ses devis en 5 étapes",
		Slug:      "automatiser-ses-devis",
		Excerpt:   "Moins de saisie, moins d'erreurs, des devis envoyés le jour même.",
		Category:  "Automatisation",
		Published: true,
		Content: `Chaque devis ressaisi à la main coûte du temps.

## 1. Centraliser le catalogue

Un tarif unique, tenu à jour, alimente tous les devis.

## 2. Générer le document

Le devis part en PDF dès que le commercial valide.`,
	},
	{
		Title:     "Outil interne ou SaaS : comment choisir",
		Slug:      "outil-interne-ou-saas",
		Excerpt:   "Les critères qui font pencher la balance vers un développement sur mesure.",
		Category:  "Business",
		Published: true,
		Content: `Un SaaS couvre souvent 80 % du besoin.

Les 20 % restants décident de la rentabilité du projet.`,
	},
	{
		Title:    "Brouillon : refonte du site",
		Slug:     "brouillon-refonte",
		Category: "Design & UX",
		Content:  "Notes de travail.",
	},
}

var demoRealisations = []realisation.CreateRequest{
	{
		Title:        "CRM pour un cabinet d'architectes",
		Slug:         "crm-architectes",
		Description:  "Suivi des projets et relances clients automatisées.",
		Tags:         []string{"Go", "PostgreSQL", "Automatisation"},
		Featured:     true,
		DisplayOrder: 1,
	},
	{
		Title:        "Site vitrine d'un artisan",
		Slug:         "site-artisan",
		Description:  "Site bilingue rapide avec prise de rendez-vous.",
		Tags:         []string{"Site web"},
		Featured:     true,
		DisplayOrder: 2,
	},
	{
		Title:        "Tri automatique des emails entrants",
		Slug:         "tri-emails",
		Description:  "Classement des demandes par IA et routage vers la bonne équipe.",
		Tags:         []string{"IA", "Automatisation"},
		DisplayOrder: 3,
	},
}

// seedContent inserts the demo content. Entries whose slug already exists are
// skipped so the command can run repeatedly.
func seedContent(ctx context.Context, articles articleCreator, realisations realisationCreator) (seedResult, error) {
	var res seedResult
	for i := range demoArticles {
		req := demoArticles[i]
		_, err := articles.Create(ctx, &req)
		switch {
		case errors.Is(err, article.ErrSlugTaken):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed article %q: %w", req.Slug, err)
		default:
			res.Articles++
		}
	}
	for i := range demoRealisations {
		req := demoRealisations[i]
		_, err := realisations.Create(ctx, &req)
		switch {
		case errors.Is(err, realisation.ErrSlugTaken):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed realisation %q: %w", req.Slug, err)
		default:
			res.Realisations++
		}
	}
	return res, nil
}
