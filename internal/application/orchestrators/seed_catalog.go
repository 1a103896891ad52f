package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/requisito"
)

// SeedCatalogDeps holds stores needed for catalog seeding.
type SeedCatalogDeps struct {
	ClubStore      seedClubStore
	ClaseStore     seedClaseStore
	RequisitoStore seedRequisitoStore
}

type seedClubStore interface {
	GetByNombre(ctx context.Context, nombre string) (club.Club, error)
	Save(ctx context.Context, c club.Club) (int64, error)
}

type seedClaseStore interface {
	GetByNombre(ctx context.Context, nombre string, clubID int64) (clase.Clase, error)
	Save(ctx context.Context, c clase.Clase) (int64, error)
}

type seedRequisitoStore interface {
	Save(ctx context.Context, r requisito.Requirement) (int64, error)
}

type reqDef struct {
	tipo      string
	categoria string
	titulo    string
	desc      string
}

func seedClubs() []club.Club {
	return []club.Club{
		{Nombre: "Orión", Email: "orion@clubes.example"},
		{Nombre: "Águilas del Norte", Email: "aguilas@clubes.example"},
		{Nombre: "Estrellas de Sion"},
	}
}

var seedClaseNombres = []string{"Amigo", "Compañero", "Explorador", "Orientador", "Viajero", "Guía"}

// seedRequisitos returns the curriculum for a shared class.
func seedRequisitos(nombre string) []reqDef {
	return []reqDef{
		{requisito.TipoRegular, "Generales", "Memorizar y explicar el Voto y la Ley del Conquistador", ""},
		{requisito.TipoRegular, "Generales", "Participar activamente en la Sociedad de Jóvenes", ""},
		{requisito.TipoRegular, "Descubrimiento espiritual", "Leer los libros bíblicos asignados a la clase " + nombre, "Registrar la lectura en el *diario de clase*."},
		{requisito.TipoRegular, "Sirviendo a los demás", "Dedicar dos horas a un proyecto de servicio comunitario", ""},
		{requisito.TipoRegular, "Desarrollo de la amistad", "Conversar con el grupo sobre el respeto a los demás", ""},
		{requisito.TipoRegular, "Salud y aptitud física", "Completar la especialidad de Natación principiante", ""},
		{requisito.TipoRegular, "Organización y liderazgo", "Planificar una salida de un día con el consejero", ""},
		{requisito.TipoRegular, "Estudio de la naturaleza", "Identificar diez especies de árboles de la región", ""},
		{requisito.TipoRegular, "Arte de acampar", "Hacer y explicar cinco nudos básicos", "Nudo llano, **as de guía**, ballestrinque, margarita y vuelta de braza."},
		{requisito.TipoRegular, "Estilo de vida", "Completar una especialidad de artes y manualidades", ""},
		{requisito.TipoAvanzada, "Generales", "Conocer la historia del Club de Conquistadores", ""},
		{requisito.TipoAvanzada, "Estudio de la naturaleza", "Completar la especialidad de Aves domésticas", ""},
		{requisito.TipoAvanzada, "Arte de acampar", "Armar y desarmar una carpa en menos de diez minutos", ""},
	}
}

// ExecuteSeedCatalog creates the default clubs, the shared classes and their requirements.
// It is idempotent: existing clubs are left alone and an existing class keeps its requirements.
// PRE: Database is migrated
// POST: every seed club and shared class exists
func ExecuteSeedCatalog(ctx context.Context, deps SeedCatalogDeps) error {
	createdClubs, createdClases := 0, 0

	for _, c := range seedClubs() {
		if _, err := deps.ClubStore.GetByNombre(ctx, c.Nombre); err == nil {
			continue
		}
		if _, err := deps.ClubStore.Save(ctx, c); err != nil {
			return fmt.Errorf("seed club %q: %w", c.Nombre, err)
		}
		createdClubs++
	}

	for i, nombre := range seedClaseNombres {
		if _, err := deps.ClaseStore.GetByNombre(ctx, nombre, 0); err == nil {
			continue
		}
		claseID, err := deps.ClaseStore.Save(ctx, clase.Clase{Nombre: nombre, Orden: i + 1})
		if err != nil {
			return fmt.Errorf("seed clase %q: %w", nombre, err)
		}
		orden := map[string]int{}
		for _, def := range seedRequisitos(nombre) {
			key := def.tipo + "/" + def.categoria
			orden[key]++
			r := requisito.Requirement{
				ClaseID:     claseID,
				Titulo:      def.titulo,
				Tipo:        def.tipo,
				Categoria:   def.categoria,
				Orden:       orden[key],
				Descripcion: def.desc,
			}
			if _, err := deps.RequisitoStore.Save(ctx, r); err != nil {
				return fmt.Errorf("seed requisito %q: %w", def.titulo, err)
			}
		}
		createdClases++
	}

	if createdClubs > 0 || createdClases > 0 {
		slog.Info("seed_event", "event", "catalog_seeded", "clubs", createdClubs, "clases", createdClases)
	}
	return nil
}
