package database

import (
	"testing"
	"time"

	"jour-j-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// updateFilter extrait le filtre de la première commande update capturée
func updateFilter(mt *mtest.T) bson.Raw {
	mt.Helper()

	evt := mt.GetStartedEvent()
	if evt == nil {
		mt.Fatal("aucune commande capturée")
	}
	if evt.CommandName != "update" {
		mt.Fatalf("commande = %s, attendu update", evt.CommandName)
	}

	values, err := evt.Command.Lookup("updates").Array().Values()
	if err != nil || len(values) == 0 {
		mt.Fatalf("commande update sans updates: %v", err)
	}
	return values[0].Document().Lookup("q").Document()
}

func TestMediaRepository_AddLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("revoter avec le même nom est un no-op", func(mt *mtest.T) {
		repo := NewMediaRepository(mt.DB)
		id := primitive.NewObjectID()
		like := models.Like{GuestName: "Alice", CreatedAt: time.Now()}

		// Premier vote : le document est modifié.
		// Deuxième vote du même nom : le filtre l'exclut, rien ne change.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		added, err := repo.AddLike(id, like)
		if err != nil {
			mt.Fatalf("AddLike() erreur = %v", err)
		}
		if !added {
			mt.Error("le premier j'aime devrait être ajouté")
		}

		added, err = repo.AddLike(id, like)
		if err != nil {
			mt.Fatalf("AddLike() doublon erreur = %v", err)
		}
		if added {
			mt.Error("le doublon devrait être un no-op, pas un ajout")
		}

		// La déduplication vit dans le filtre : likes.guest_name $ne
		filter := updateFilter(mt)
		dedup := filter.Lookup("likes.guest_name")
		if dedup.Value == nil {
			mt.Fatalf("filtre sans déduplication par nom: %v", filter)
		}
		if dedup.Document().Lookup("$ne").StringValue() != "Alice" {
			mt.Errorf("filtre de déduplication = %v, attendu $ne Alice", dedup)
		}
	})
}

func TestMediaRepository_SetStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("changement réel de statut", func(mt *mtest.T) {
		repo := NewMediaRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		changed, err := repo.SetStatus(id, models.StatusApproved)
		if err != nil {
			mt.Fatalf("SetStatus() erreur = %v", err)
		}
		if !changed {
			mt.Error("SetStatus() devrait signaler le changement")
		}

		// Le filtre exclut les documents déjà dans le statut cible :
		// c'est lui qui rend le signal de changement fiable sous concurrence
		filter := updateFilter(mt)
		ne := filter.Lookup("status").Document().Lookup("$ne")
		if ne.StringValue() != string(models.StatusApproved) {
			mt.Errorf("filtre status = %v, attendu $ne approved", ne)
		}
	})

	mt.Run("statut déjà au niveau cible: aucun changement signalé", func(mt *mtest.T) {
		repo := NewMediaRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		changed, err := repo.SetStatus(id, models.StatusApproved)
		if err != nil {
			mt.Fatalf("SetStatus() erreur = %v", err)
		}
		if changed {
			mt.Error("aucun document modifié ne devrait signaler un changement")
		}
	})
}

func TestMediaRepository_SetStatusBulk(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("le filtre cloisonne par événement", func(mt *mtest.T) {
		repo := NewMediaRepository(mt.DB)
		eventID := primitive.NewObjectID()
		ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

		// Trois IDs demandés mais un appartient à un autre événement :
		// le serveur n'en modifie que deux
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		modified, err := repo.SetStatusBulk(eventID, ids, models.StatusRejected)
		if err != nil {
			mt.Fatalf("SetStatusBulk() erreur = %v", err)
		}
		if modified != 2 {
			mt.Errorf("modified = %d, attendu 2", modified)
		}

		filter := updateFilter(mt)

		gotEvent, ok := filter.Lookup("event_id").ObjectIDOK()
		if !ok || gotEvent != eventID {
			mt.Errorf("filtre event_id = %v, attendu %s", filter.Lookup("event_id"), eventID.Hex())
		}

		inValues, err := filter.Lookup("_id").Document().Lookup("$in").Array().Values()
		if err != nil {
			mt.Fatalf("filtre _id sans $in: %v", err)
		}
		if len(inValues) != len(ids) {
			mt.Errorf("$in porte %d IDs, attendu %d", len(inValues), len(ids))
		}
	})
}
